package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog"

	"vct-scorigami/internal/domain"
)

type sqliteStore struct {
	baseStore
}

func NewSQLiteStore(db *sql.DB, logger zerolog.Logger) Store {
	return &sqliteStore{baseStore{db: db, logger: logger}}
}

func (s *sqliteStore) Insert(ctx context.Context, r domain.MatchRecord) error {
	const query = `
		INSERT INTO matches
			(description, map, player, kills, deaths, match_date, result, team, tournament_id, match_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		strings.TrimSpace(r.Description),
		strings.TrimSpace(r.Map),
		strings.TrimSpace(r.Player),
		r.Kills,
		r.Deaths,
		nullString(r.MatchDate),
		nullString(string(r.Result)),
		nullString(strings.TrimSpace(r.Team)),
		nullInt(r.TournamentID),
		nullString(r.MatchID),
	)
	return err
}

func (s *sqliteStore) Exists(ctx context.Context, key RecordKey) (bool, error) {
	var query string
	var args []any
	if key.MatchID != "" {
		query = `SELECT 1 FROM matches WHERE match_id = ? AND map = ? AND player = ? LIMIT 1`
		args = []any{key.MatchID, key.Map, key.Player}
	} else {
		query = `SELECT 1 FROM matches WHERE description = ? AND map = ? AND player = ? LIMIT 1`
		args = []any{key.Description, key.Map, key.Player}
	}

	var one int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqliteStore) ScoreGrid(ctx context.Context, filter ScoreFilter) ([]domain.ScoreCell, error) {
	query := `SELECT kills, deaths, COUNT(*) FROM matches`
	var conditions []string
	var args []any

	if filter.Player != "" {
		conditions = append(conditions, `player = ?`)
		args = append(args, filter.Player)
	}
	if filter.Tournament != "" {
		conditions = append(conditions, `description LIKE ?`)
		args = append(args, filter.Tournament+"%")
	}
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` GROUP BY kills, deaths ORDER BY kills, deaths`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScoreCells(rows)
}
