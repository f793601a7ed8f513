// Package server exposes the audit pipeline over HTTP. The pipeline context
// is not safe for concurrent use, so every handler that touches it holds the
// server mutex.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/auditlab/secop-cli/internal/audit"
	"github.com/auditlab/secop-cli/internal/cluster"
	"github.com/auditlab/secop-cli/internal/config"
	"github.com/auditlab/secop-cli/internal/model"
	"github.com/auditlab/secop-cli/internal/pipeline"
	"github.com/auditlab/secop-cli/internal/store"
)

// Server wraps one loaded pipeline context and a run-history store.
type Server struct {
	cfg     config.Config
	st      store.Store
	labels  []string
	dataset string

	mu   sync.Mutex
	pctx *pipeline.Context
}

// New creates a Server around an already-loaded pipeline context.
func New(cfg config.Config, st store.Store, pctx *pipeline.Context, labels []string, datasetPath string) *Server {
	return &Server{
		cfg:     cfg,
		st:      st,
		labels:  labels,
		dataset: datasetPath,
		pctx:    pctx,
	}
}

// Router builds the chi handler with CORS and rate limiting applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(throttle(rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit), s.cfg.Server.RateBurst)))

	r.Get("/health", s.handleHealth)
	r.Get("/eda", s.handleEDA)
	r.Post("/segment", s.handleSegment)
	r.Get("/audit", s.handleAudit)
	r.Get("/runs", s.handleRuns)
	r.Get("/runs/{id}", s.handleRun)

	return r
}

// throttle rejects requests beyond the configured rate with 429.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEDA(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	summary, err := s.pctx.EDA(s.cfg.EDA.TopModalities, s.cfg.EDA.HistogramBins)
	schema := s.pctx.Schema()
	stats := s.pctx.Stats()
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"schema":  schema,
		"stats":   stats,
		"summary": summary,
	})
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	run, err := s.st.CreateRun(ctx, s.dataset)
	if err != nil {
		zap.L().Error("server: create run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not record run")
		return
	}

	start := time.Now()

	s.mu.Lock()
	stats := s.pctx.Stats()
	profiles := len(s.pctx.Profiles())
	res, segErr := s.pctx.Segment(cluster.Options{
		K:        s.cfg.Segment.K,
		Seed:     s.cfg.Segment.Seed,
		Restarts: s.cfg.Segment.Restarts,
		MaxIter:  s.cfg.Segment.MaxIter,
	})
	s.mu.Unlock()

	if segErr != nil {
		if err := s.st.FailRun(ctx, run.ID, segErr.Error()); err != nil {
			zap.L().Error("server: fail run", zap.Error(err))
		}
		writeError(w, http.StatusUnprocessableEntity, segErr.Error())
		return
	}

	summary := &model.RunSummary{
		Rows:               stats.Rows,
		CleanRecords:       stats.Kept,
		DroppedUnparseable: stats.DroppedUnparseable,
		DroppedNonPositive: stats.DroppedNonPositive,
		Entities:           profiles,
		K:                  res.K,
		Seed:               res.Seed,
		WCSS:               res.WCSS,
		DurationMs:         time.Since(start).Milliseconds(),
	}
	if err := s.st.CompleteRun(ctx, run.ID, summary); err != nil {
		zap.L().Error("server: complete run", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":   run.ID,
		"result":   res,
		"clusters": audit.DescribeClusters(res, s.labels),
	})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	svc, err := audit.NewService(s.pctx.Profiles(), s.pctx.Segmentation(), s.labels)
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	matches := svc.Query(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
		Limit:  50,
	}

	runs, err := s.st.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.st.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
