package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"vct-scorigami/internal/database"
	"vct-scorigami/internal/domain"
)

func newSQLiteTestStore(t *testing.T) Store {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	store := NewSQLiteStore(db, zerolog.Nop())
	t.Cleanup(func() { store.Close() })
	return store
}

func record(tournament, mapName, player string, kills, deaths int, matchID string) domain.MatchRecord {
	return domain.MatchRecord{
		Description:  tournament + " - A vs B",
		Map:          mapName,
		Player:       player,
		Kills:        kills,
		Deaths:       deaths,
		MatchDate:    "2024-08-25",
		Result:       domain.ResultWin,
		Team:         "A",
		TournamentID: 2097,
		MatchID:      matchID,
	}
}

func TestInsertAndExists(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	r := record("Champions", "Ascent", "zekken", 22, 15, "500")
	require.NoError(t, store.Insert(ctx, r))

	exists, err := store.Exists(ctx, KeyFor(r))
	require.NoError(t, err)
	require.True(t, exists)

	// different player on the same match is absent
	other := r
	other.Player = "aspas"
	exists, err = store.Exists(ctx, KeyFor(other))
	require.NoError(t, err)
	require.False(t, exists)

	// different map on the same match is absent
	otherMap := r
	otherMap.Map = "Bind"
	exists, err = store.Exists(ctx, KeyFor(otherMap))
	require.NoError(t, err)
	require.False(t, exists)
}

func TestExistsKeyPrecedence(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	stored := record("Champions", "Ascent", "zekken", 22, 15, "500")
	require.NoError(t, store.Insert(ctx, stored))

	// match-id key matches regardless of description
	probe := stored
	probe.Description = "entirely different"
	exists, err := store.Exists(ctx, KeyFor(probe))
	require.NoError(t, err)
	require.True(t, exists)

	// without a match id the description key is used instead
	legacy := stored
	legacy.MatchID = ""
	exists, err = store.Exists(ctx, KeyFor(legacy))
	require.NoError(t, err)
	require.True(t, exists)

	legacy.Description = "entirely different"
	exists, err = store.Exists(ctx, KeyFor(legacy))
	require.NoError(t, err)
	require.False(t, exists)
}

func TestInsertTrimsFields(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	r := record("Champions", "Ascent", "zekken", 22, 15, "500")
	padded := r
	padded.Player = "  zekken  "
	padded.Map = " Ascent "
	require.NoError(t, store.Insert(ctx, padded))

	exists, err := store.Exists(ctx, KeyFor(r))
	require.NoError(t, err)
	require.True(t, exists)
}

func TestStatsAndBalance(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record("Champions", "Ascent", "zekken", 22, 15, "500")))
	require.NoError(t, store.Insert(ctx, record("Champions", "Ascent", "aspas", 15, 22, "500")))
	require.NoError(t, store.Insert(ctx, record("Masters", "Bind", "zekken", 10, 5, "501")))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.TotalRecords)
	require.EqualValues(t, 2, stats.UniquePlayers)
	require.EqualValues(t, 2, stats.UniqueMaps)
	require.EqualValues(t, 2, stats.UniqueTournaments)
	require.EqualValues(t, 47, stats.TotalKills)
	require.EqualValues(t, 42, stats.TotalDeaths)
	require.Equal(t, 5, stats.KDBalance())

	balance, err := store.KillDeathBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, balance)
}

func TestScoreGridFilters(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record("Champions", "Ascent", "zekken", 22, 15, "500")))
	require.NoError(t, store.Insert(ctx, record("Champions", "Ascent", "aspas", 22, 15, "500")))
	require.NoError(t, store.Insert(ctx, record("Masters", "Bind", "zekken", 10, 5, "501")))

	all, err := store.ScoreGrid(ctx, ScoreFilter{})
	require.NoError(t, err)
	require.Equal(t, []domain.ScoreCell{
		{Kills: 10, Deaths: 5, Count: 1},
		{Kills: 22, Deaths: 15, Count: 2},
	}, all)

	byPlayer, err := store.ScoreGrid(ctx, ScoreFilter{Player: "zekken"})
	require.NoError(t, err)
	require.Equal(t, []domain.ScoreCell{
		{Kills: 10, Deaths: 5, Count: 1},
		{Kills: 22, Deaths: 15, Count: 1},
	}, byPlayer)

	byTournament, err := store.ScoreGrid(ctx, ScoreFilter{Tournament: "Masters"})
	require.NoError(t, err)
	require.Equal(t, []domain.ScoreCell{
		{Kills: 10, Deaths: 5, Count: 1},
	}, byTournament)

	both, err := store.ScoreGrid(ctx, ScoreFilter{Player: "aspas", Tournament: "Masters"})
	require.NoError(t, err)
	require.Empty(t, both)
}

func TestScorigamis(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record("Champions", "Ascent", "zekken", 22, 15, "500")))
	require.NoError(t, store.Insert(ctx, record("Champions", "Ascent", "aspas", 22, 15, "500")))
	require.NoError(t, store.Insert(ctx, record("Masters", "Bind", "zekken", 10, 5, "501")))

	unique, err := store.Scorigamis(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.ScoreCell{
		{Kills: 10, Deaths: 5, Count: 1},
	}, unique)
}

func TestPlayersAndTournaments(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record("Masters", "Bind", "Zekken", 10, 5, "501")))
	require.NoError(t, store.Insert(ctx, record("Champions", "Ascent", "aspas", 22, 15, "500")))

	players, err := store.Players(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"aspas", "Zekken"}, players)

	tournaments, err := store.Tournaments(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Champions - A vs B", "Masters - A vs B"}, tournaments)
}
