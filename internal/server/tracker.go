package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"league-tracker/internal/api"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"
	"league-tracker/internal/reference"
	"league-tracker/internal/service"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type TrackerServer struct {
	stats  *service.StatsService
	refs   *reference.Cache
	riot   *api.RiotClient
	logger zerolog.Logger
}

func NewTrackerServer(stats *service.StatsService, refs *reference.Cache, riot *api.RiotClient, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{stats: stats, refs: refs, riot: riot, logger: logger}
}

func (s *TrackerServer) Routes(router *mux.Router) {
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/players/{name}/{tag}/matches", s.handlePlayerMatches).Methods(http.MethodGet)
	v1.HandleFunc("/players/{name}/{tag}/summary", s.handlePlayerSummary).Methods(http.MethodGet)
	v1.HandleFunc("/puuid/{puuid}/matches", s.handlePuuidMatches).Methods(http.MethodGet)
	v1.HandleFunc("/summoners/{summonerId}/matches", s.handleSummonerMatches).Methods(http.MethodGet)
	v1.HandleFunc("/reference/{table}/refresh", s.handleReferenceRefresh).Methods(http.MethodPost)
	v1.HandleFunc("/ratelimit", s.handleRateLimit).Methods(http.MethodGet)
}

func (s *TrackerServer) handlePlayerMatches(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.serveMatches(w, r, service.LookupRequest{Name: vars["name"], Tag: vars["tag"]})
}

func (s *TrackerServer) handlePuuidMatches(w http.ResponseWriter, r *http.Request) {
	s.serveMatches(w, r, service.LookupRequest{Puuid: domain.PlayerIdentity(mux.Vars(r)["puuid"])})
}

func (s *TrackerServer) handleSummonerMatches(w http.ResponseWriter, r *http.Request) {
	s.serveMatches(w, r, service.LookupRequest{SummonerID: mux.Vars(r)["summonerId"]})
}

func (s *TrackerServer) serveMatches(w http.ResponseWriter, r *http.Request, req service.LookupRequest) {
	if err := parseQuery(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.stats.Lookup(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, stats)
}

type summaryResponse struct {
	Puuid   domain.PlayerIdentity `json:"puuid"`
	Cached  bool                  `json:"cached"`
	Summary service.Summary       `json:"summary"`
}

func (s *TrackerServer) handlePlayerSummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	req := service.LookupRequest{Name: vars["name"], Tag: vars["tag"]}
	if err := parseQuery(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.stats.Lookup(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, summaryResponse{
		Puuid:   stats.Puuid,
		Cached:  stats.Cached,
		Summary: service.Summarize(stats.Matches),
	})
}

func (s *TrackerServer) handleReferenceRefresh(w http.ResponseWriter, r *http.Request) {
	var t reference.Table
	switch name := mux.Vars(r)["table"]; name {
	case "champion":
		t = reference.Champion
	case "item":
		t = reference.Item
	default:
		s.writeError(w, r, fmt.Errorf("%w: unknown reference table %q", domain.ErrInvalidInput, name))
		return
	}

	if err := s.refs.Refresh(r.Context(), t); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"table": t.String(), "available": s.refs.Available(t)})
}

func (s *TrackerServer) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.riot.RateLimit())
}

func (s *TrackerServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"champions": s.refs.Available(reference.Champion),
		"items":     s.refs.Available(reference.Item),
	})
}

func parseQuery(r *http.Request, req *service.LookupRequest) error {
	q := r.URL.Query()

	req.Count = constants.DefaultMatchCount
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: invalid count %q", domain.ErrInvalidInput, v)
		}
		req.Count = n
	}

	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: invalid refresh %q", domain.ErrInvalidInput, v)
		}
		req.Refresh = b
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedRecord):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReferenceDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *TrackerServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ev := s.requestLogger(r).Warn()
	if status >= http.StatusInternalServerError {
		ev = s.requestLogger(r).Error()
	}
	ev.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func (s *TrackerServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.requestLogger(r).Error().Err(err).Msg("failed to encode response")
	}
}

// requestLogger prefers the request-scoped logger set by the RequestID
// middleware.
func (s *TrackerServer) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
