package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"vct-scorigami/internal/constants"
	"vct-scorigami/internal/storage"
)

// APIServer exposes the stored record set as a small read-only JSON
// API. Rendering, ranking and authentication live elsewhere.
type APIServer struct {
	store  storage.Store
	logger zerolog.Logger
}

func NewAPIServer(store storage.Store, logger zerolog.Logger) *APIServer {
	return &APIServer{store: store, logger: logger}
}

func (s *APIServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/scores", s.handleScores)
	mux.HandleFunc("GET /api/scorigamis", s.handleScorigamis)
	mux.HandleFunc("GET /api/players", s.handlePlayers)
	mux.HandleFunc("GET /api/tournaments", s.handleTournaments)
	return mux
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, map[string]any{
		"status":  "healthy",
		"records": stats.TotalRecords,
	})
}

func (s *APIServer) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, map[string]any{
		"total_records":      stats.TotalRecords,
		"unique_players":     stats.UniquePlayers,
		"unique_maps":        stats.UniqueMaps,
		"unique_tournaments": stats.UniqueTournaments,
		"total_kills":        stats.TotalKills,
		"total_deaths":       stats.TotalDeaths,
		"kd_balance":         stats.KDBalance(),
	})
}

func (s *APIServer) handleScores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	filter := storage.ScoreFilter{
		Player:     r.URL.Query().Get("player"),
		Tournament: r.URL.Query().Get("tournament"),
	}

	cells, err := s.store.ScoreGrid(ctx, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, cells)
}

func (s *APIServer) handleScorigamis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	cells, err := s.store.Scorigamis(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, cells)
}

func (s *APIServer) handlePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	players, err := s.store.Players(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, players)
}

func (s *APIServer) handleTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	tournaments, err := s.store.Tournaments(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, tournaments)
}

func (s *APIServer) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), constants.DatabaseTimeout)
}

func (s *APIServer) writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("response encoding failed")
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
}
