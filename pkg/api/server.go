// Package api serves the solver over HTTP.
//
// Routes are mounted on a chi router:
//
//	GET    /healthz
//	GET    /v1/strategies
//	POST   /v1/solve
//	POST   /v1/compare
//	GET    /v1/estimate?n=&maxCost=&strategy=
//	POST   /v1/workspaces
//	GET    /v1/workspaces/{id}
//	DELETE /v1/workspaces/{id}
//	POST   /v1/workspaces/{id}/tasks
//	DELETE /v1/workspaces/{id}/tasks/{taskID}
//	PUT    /v1/workspaces/{id}/constraints
//	POST   /v1/workspaces/{id}/run
//	GET    /metrics            (when a metrics handler is configured)
//
// Errors are JSON objects {"code", "message"} with the status chosen by
// errors.HTTPStatus.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/session"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

const shutdownTimeout = 10 * time.Second

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	Store  session.Store
	Logger *log.Logger
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.Metrics = h }
}

// New returns a server solving through runner and keeping workspaces in
// store. A nil store keeps workspaces in memory.
func New(runner *pipeline.Runner, store session.Store, opts ...Option) *Server {
	if store == nil {
		store = session.NewMemoryStore()
	}
	s := &Server{
		Runner: runner,
		Store:  store,
		Logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/strategies", s.handleStrategies)
		r.Post("/solve", s.handleSolve)
		r.Post("/compare", s.handleCompare)
		r.Get("/estimate", s.handleEstimate)

		r.Route("/workspaces", func(r chi.Router) {
			r.Post("/", s.handleCreateWorkspace)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetWorkspace)
				r.Delete("/", s.handleDeleteWorkspace)
				r.Post("/tasks", s.handleAddTask)
				r.Delete("/tasks/{taskID}", s.handleDeleteTask)
				r.Put("/constraints", s.handleSetConstraints)
				r.Post("/run", s.handleRun)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.Logger, notFoundError(r))
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
