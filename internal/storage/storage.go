package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vct-scorigami/internal/config"
	"vct-scorigami/internal/domain"
)

// RecordKey is the natural key used for duplicate detection. The
// match-id form is preferred; records scraped before match ids were
// captured fall back to the description form.
type RecordKey struct {
	MatchID     string
	Description string
	Map         string
	Player      string
}

func KeyFor(r domain.MatchRecord) RecordKey {
	return RecordKey{
		MatchID:     r.MatchID,
		Description: strings.TrimSpace(r.Description),
		Map:         strings.TrimSpace(r.Map),
		Player:      strings.TrimSpace(r.Player),
	}
}

// ScoreFilter narrows the score grid to one player and/or tournaments
// whose description starts with the given prefix.
type ScoreFilter struct {
	Player     string
	Tournament string
}

// Store is the persistence boundary of the pipeline. Both backends
// expose the same capability set; callers never know which dialect
// they talk to.
type Store interface {
	Insert(ctx context.Context, record domain.MatchRecord) error
	Exists(ctx context.Context, key RecordKey) (bool, error)

	Stats(ctx context.Context) (domain.StoreStats, error)
	KillDeathBalance(ctx context.Context) (int, error)
	ScoreGrid(ctx context.Context, filter ScoreFilter) ([]domain.ScoreCell, error)
	Scorigamis(ctx context.Context) ([]domain.ScoreCell, error)
	Players(ctx context.Context) ([]string, error)
	Tournaments(ctx context.Context) ([]string, error)

	Close() error
}

// New selects the backend matching the database the config opened.
func New(db *sql.DB, cfg *config.Config, logger zerolog.Logger) Store {
	if cfg.DatabaseURL != "" {
		return NewPostgresStore(db, logger)
	}
	return NewSQLiteStore(db, logger)
}

// baseStore carries the aggregate queries whose SQL is identical in
// both dialects.
type baseStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func (s *baseStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(DISTINCT player),
		       COUNT(DISTINCT map),
		       COUNT(DISTINCT description),
		       COALESCE(SUM(kills), 0),
		       COALESCE(SUM(deaths), 0)
		FROM matches`

	var stats domain.StoreStats
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalRecords,
		&stats.UniquePlayers,
		&stats.UniqueMaps,
		&stats.UniqueTournaments,
		&stats.TotalKills,
		&stats.TotalDeaths,
	)
	return stats, err
}

func (s *baseStore) KillDeathBalance(ctx context.Context) (int, error) {
	var balance int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(kills) - SUM(deaths), 0) FROM matches`,
	).Scan(&balance)
	return balance, err
}

func (s *baseStore) Scorigamis(ctx context.Context) ([]domain.ScoreCell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kills, deaths, COUNT(*)
		FROM matches
		GROUP BY kills, deaths
		HAVING COUNT(*) = 1
		ORDER BY kills, deaths`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScoreCells(rows)
}

func (s *baseStore) Players(ctx context.Context) ([]string, error) {
	return s.stringColumn(ctx,
		`SELECT DISTINCT player FROM matches ORDER BY LOWER(player)`)
}

func (s *baseStore) Tournaments(ctx context.Context) ([]string, error) {
	return s.stringColumn(ctx,
		`SELECT DISTINCT description FROM matches ORDER BY description`)
}

func (s *baseStore) stringColumn(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *baseStore) Close() error {
	return s.db.Close()
}

func scanScoreCells(rows *sql.Rows) ([]domain.ScoreCell, error) {
	var cells []domain.ScoreCell
	for rows.Next() {
		var c domain.ScoreCell
		if err := rows.Scan(&c.Kills, &c.Deaths, &c.Count); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

var Module = fx.Provide(New)
