package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"
	"lobbywatch/internal/middleware"
	"lobbywatch/internal/report"
	"lobbywatch/internal/repository"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// StatusServer exposes the latest report and the sighting history over HTTP.
// history may be nil when no history database is configured.
type StatusServer struct {
	latest    *report.Latest
	history   *repository.SightingRepository
	logger    zerolog.Logger
	startedAt time.Time
}

func NewStatusServer(latest *report.Latest, history *repository.SightingRepository, logger zerolog.Logger) *StatusServer {
	return &StatusServer{
		latest:    latest,
		history:   history,
		logger:    logger.With().Str("component", "status_server").Logger(),
		startedAt: time.Now(),
	}
}

func (s *StatusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /lobbies", s.lobbies)
	mux.HandleFunc("GET /lobbies/{id}/sightings", s.lobbySightings)
	mux.HandleFunc("GET /history", s.recent)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return middleware.RequestID(s.logger)(c.Handler(mux))
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Reported      bool   `json:"reported"`
}

func (s *StatusServer) health(w http.ResponseWriter, r *http.Request) {
	_, ok := s.latest.Get()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Reported:      ok,
	})
}

func (s *StatusServer) lobbies(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.latest.Get()
	if !ok {
		writeJSON(w, http.StatusOK, report.NewReportPayload(domain.Report{}))
		return
	}
	writeJSON(w, http.StatusOK, report.NewReportPayload(latest))
}

type sightingResponse struct {
	ID             string    `json:"id"`
	CycleID        string    `json:"cycle_id"`
	LobbyID        string    `json:"lobby_id"`
	Name           string    `json:"name"`
	Version        string    `json:"version"`
	HasPassword    bool      `json:"has_password"`
	CurrentPlayers uint      `json:"current_players"`
	MaxPlayers     uint      `json:"max_players"`
	ReportedAt     time.Time `json:"reported_at"`
}

func (s *StatusServer) recent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := constants.HistoryDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(v, constants.HistoryMaxLimit)
	}

	sightings, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to read history")
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	resp := make([]sightingResponse, len(sightings))
	for i, si := range sightings {
		resp[i] = sightingResponse{
			ID:             si.ID,
			CycleID:        si.CycleID,
			LobbyID:        si.LobbyID.String(),
			Name:           si.Name,
			Version:        si.Version,
			HasPassword:    si.HasPassword,
			CurrentPlayers: si.CurrentPlayers,
			MaxPlayers:     si.MaxPlayers,
			ReportedAt:     si.ReportedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *StatusServer) lobbySightings(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lobby id")
		return
	}

	count, err := s.history.CountByLobby(r.Context(), domain.LobbyID(id))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to count sightings")
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lobby_id":  domain.LobbyID(id).String(),
		"sightings": count,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
