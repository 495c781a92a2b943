// Package server exposes the task graph engine over HTTP.
//
// Routes:
//
//	GET    /health                   liveness probe
//	GET    /graphs                   list stored graph IDs
//	PUT    /graphs/{id}              store a graph document
//	GET    /graphs/{id}              fetch a graph document
//	DELETE /graphs/{id}              remove a graph document
//	GET    /graphs/{id}/report       full analysis report (cached)
//	GET    /graphs/{id}/health       health section of the report
//	GET    /graphs/{id}/export       graph in ?format=json|dot|svg
//	POST   /graphs/{id}/events       apply execution events
//
// Reports are cached by graph ID and document version, so repeated report
// requests against an unchanged graph skip the analysis passes.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/taskgraph/pkg/cache"
	"github.com/matzehuels/taskgraph/pkg/store"
)

// Config holds server dependencies and listen settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Store provides graph persistence. Required.
	Store store.Store

	// Cache serves analysis reports. A nil cache disables report caching.
	Cache cache.Cache

	// Logger receives request and error logs. Nil falls back to
	// [log.Default].
	Logger *log.Logger
}

// Server handles HTTP traffic for graph storage and analysis.
type Server struct {
	addr   string
	store  store.Store
	cache  cache.Cache
	logger *log.Logger
}

// New creates a server from the config.
func New(cfg Config) *Server {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:   cfg.Addr,
		store:  cfg.Store,
		cache:  c,
		logger: logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.handleListGraphs)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.handlePutGraph)
			r.Get("/", s.handleGetGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Get("/report", s.handleReport)
			r.Get("/health", s.handleGraphHealth)
			r.Get("/export", s.handleExport)
			r.Post("/events", s.handleEvents)
		})
	})

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}
