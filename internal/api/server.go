package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/nawasena/internal/filtering"
	"github.com/spigell/nawasena/internal/matching"
	"github.com/spigell/nawasena/internal/observability"
	"github.com/spigell/nawasena/internal/roster"
	"github.com/spigell/nawasena/internal/scoring"
)

const shutdownTimeout = 10 * time.Second

// Matcher is the part of the matching service exposed over HTTP.
type Matcher interface {
	Roster() *roster.Roster
	AIEnabled() bool
	FilterStatus() []filtering.Status
	FindJobProspects(ctx context.Context, employeeID string) ([]matching.Prospect, error)
	FindCompatibleCandidates(ctx context.Context, jobID string, method scoring.Method) ([]matching.Candidate, error)
	CheckBias(ctx context.Context, jobID string, candidates []matching.BiasCandidate) (*matching.BiasResult, error)
	ExplainCompatibility(ctx context.Context, employeeID, jobID string) (*matching.CompatibilityExplanation, error)
}

type Server struct {
	router  *chi.Mux
	matcher Matcher
	stats   *observability.Stats
	logger  *zap.Logger
}

func NewServer(matcher Matcher, stats *observability.Stats, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:  chi.NewRouter(),
		matcher: matcher,
		stats:   stats,
		logger:  logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)

	s.router.Route("/employees", func(r chi.Router) {
		r.Get("/", s.handleListEmployees)
		r.Get("/{id}", s.handleGetEmployee)
		r.Get("/{id}/prospects", s.handleProspects)
		r.Get("/{id}/jobs/{jid}/explanation", s.handleExplanation)
	})

	s.router.Route("/jobs", func(r chi.Router) {
		r.Get("/", s.handleListJobs)
		r.Get("/{id}", s.handleGetJob)
		r.Get("/{id}/candidates", s.handleCandidates)
		r.Post("/{id}/bias-check", s.handleBiasCheck)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		response = []byte(`{"error":"encoding response failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps matching errors onto HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, matching.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, matching.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, matching.ErrAIDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, matching.ErrBiasCheck):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}

	message := err.Error()
	if errors.Is(err, matching.ErrBiasCheck) {
		message = matching.ErrBiasCheck.Error()
	}
	respondError(w, status, message)
}
