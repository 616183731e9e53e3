package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"vct-scorigami/internal/constants"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("SCRAPE_DELAY", "")
	t.Setenv("UPDATE_INTERVAL", "")
	t.Setenv("ACTIVE_TOURNAMENTS", "")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, "matches.db", cfg.DBPath)
	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, constants.DefaultScrapeDelay, cfg.ScrapeDelay)
	require.Equal(t, constants.DefaultUpdateInterval, cfg.UpdateInterval)
	require.Empty(t, cfg.ActiveTournaments)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scorigami")
	t.Setenv("DB_PATH", "/tmp/other.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCRAPE_DELAY", "250ms")
	t.Setenv("UPDATE_INTERVAL", "1h")
	t.Setenv("ACTIVE_TOURNAMENTS", "2097, 2283,2766")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, "postgres://localhost/scorigami", cfg.DatabaseURL)
	require.Equal(t, "9090", cfg.ServerPort)
	require.Equal(t, 250*time.Millisecond, cfg.ScrapeDelay)
	require.Equal(t, time.Hour, cfg.UpdateInterval)
	require.Equal(t, []int{2097, 2283, 2766}, cfg.ActiveTournaments)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SCRAPE_DELAY", "soon")
	_, err := Load(zerolog.Nop())
	require.Error(t, err)

	t.Setenv("SCRAPE_DELAY", "")
	t.Setenv("ACTIVE_TOURNAMENTS", "2097,abc")
	_, err = Load(zerolog.Nop())
	require.Error(t, err)
}

func TestParseIDListSkipsBlanks(t *testing.T) {
	ids, err := parseIDList("1, ,2,,3")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, ids)
}
