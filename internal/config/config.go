package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vct-scorigami/internal/constants"
)

type Config struct {
	// DatabaseURL selects the Postgres backend when set; otherwise
	// records are stored in the SQLite file at DBPath.
	DatabaseURL string
	DBPath      string

	ServerPort string
	LogLevel   string

	ScrapeDelay    time.Duration
	UpdateInterval time.Duration

	// ActiveTournaments is the set of tournaments the incremental
	// updater checks. Empty means "use the curated tier 1 list".
	ActiveTournaments []int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBPath:         getEnv("DB_PATH", "matches.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ScrapeDelay:    constants.DefaultScrapeDelay,
		UpdateInterval: constants.DefaultUpdateInterval,
	}

	if v := os.Getenv("SCRAPE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRAPE_DELAY %q: %w", v, err)
		}
		cfg.ScrapeDelay = d
	}

	if v := os.Getenv("UPDATE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid UPDATE_INTERVAL %q: %w", v, err)
		}
		cfg.UpdateInterval = d
	}

	if v := os.Getenv("ACTIVE_TOURNAMENTS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ACTIVE_TOURNAMENTS %q: %w", v, err)
		}
		cfg.ActiveTournaments = ids
	}

	logger.Info().
		Bool("postgres", cfg.DatabaseURL != "").
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("scrape_delay", cfg.ScrapeDelay).
		Dur("update_interval", cfg.UpdateInterval).
		Int("active_tournaments", len(cfg.ActiveTournaments)).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var Module = fx.Provide(Load)
