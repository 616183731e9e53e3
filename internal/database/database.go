package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vct-scorigami/internal/config"
	"vct-scorigami/internal/constants"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// New opens the record store: Postgres when DATABASE_URL is set,
// SQLite otherwise.
func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	if cfg.DatabaseURL != "" {
		return OpenPostgres(cfg.DatabaseURL, logger)
	}
	return OpenSQLite(cfg.DBPath, logger)
}

func OpenSQLite(path string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", path).Msg("connecting to sqlite database")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	configurePool(db)

	if err := optimizeSQLite(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize sqlite: %w", err)
	}
	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("sqlite connection established")
	return db, nil
}

func OpenPostgres(dsn string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Msg("connecting to postgres database")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	configurePool(db)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres within %v: %w", constants.DatabaseTimeout, err)
	}

	if err := ensurePostgresSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure postgres schema: %w", err)
	}

	logger.Info().Msg("postgres connection established")
	return db, nil
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)
}

func runMigrations(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Info().Msg("migrations completed successfully")
	return nil
}

func optimizeSQLite(db *sql.DB, logger zerolog.Logger) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "ON"},
		{"temp_store", "MEMORY"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
		logger.Debug().
			Str("pragma", pragma.name).
			Str("value", pragma.value).
			Msg("sqlite pragma set")
	}

	return nil
}

// goose is wired for the sqlite dialect only; the postgres schema is
// idempotently ensured at startup instead, the way the original
// deployment managed it.
func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id SERIAL PRIMARY KEY,
			description TEXT NOT NULL,
			map TEXT NOT NULL,
			player TEXT NOT NULL,
			kills INTEGER NOT NULL,
			deaths INTEGER NOT NULL,
			match_date TEXT,
			result TEXT,
			team TEXT,
			tournament_id INTEGER,
			match_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_player ON matches(player)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_description ON matches(description)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_match_date ON matches(match_date)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_natural_key ON matches(match_id, map, player)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var Module = fx.Provide(New)
