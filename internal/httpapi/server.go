package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rivergate/proxywatch/internal/domain"
	"github.com/rivergate/proxywatch/internal/repo"
)

// Server is the read-only status surface the admin UI polls. It only ever
// reads the status store; all writes belong to the watchdog.
type Server struct {
	Logger *zap.Logger
	Status repo.StatusStore
}

func NewServer(l *zap.Logger, status repo.StatusStore) *Server {
	return &Server{Logger: l, Status: status}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/entities/{kind}/{id}/history", s.handleHistory)

	return r
}

// handleStatus returns the most recent record per (entity, kind, upstream).
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Status.LatestAll(r.Context())
	if err != nil {
		s.Logger.Warn("api_status_error", zap.Error(err))
		http.Error(w, "status unavailable", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []domain.HealthRecord{}
	}
	writeJSON(w, recs)
}

// handleHistory returns one entity's records from the last N hours
// (?hours=, default 24), newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	kind := domain.EntityKind(chi.URLParam(r, "kind"))
	if kind != domain.KindProxyRoute && kind != domain.KindStreamPort {
		http.Error(w, "unknown entity kind", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "bad entity id", http.StatusBadRequest)
		return
	}

	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "bad hours", http.StatusBadRequest)
			return
		}
		hours = n
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	recs, err := s.Status.History(r.Context(), id, kind, since)
	if err != nil {
		s.Logger.Warn("api_history_error",
			zap.Int64("entity_id", id),
			zap.String("entity_kind", string(kind)),
			zap.Error(err),
		)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []domain.HealthRecord{}
	}
	writeJSON(w, recs)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
