// Package server exposes a built recommendation space over HTTP.
//
// Routes:
//
//	GET /recommendations?q=funny+cats&liked=1,2&k=5
//	GET /items?offset=0&limit=100
//	GET /items/{id}
//	GET /health
//	GET /metrics
//
// Responses are JSON. Errors use {"error": code, "message": text}; caller
// mistakes are "invalid_request" with status 400. Recommendation results may be
// cached in Redis; cache failures are logged and never fail a request.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chriscorrea/kindred/internal/metrics"
	"github.com/chriscorrea/kindred/internal/recommend"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Options configures a Server. Zero values take the defaults noted per field.
type Options struct {
	MaxResults     int           // upper bound for k (default 50)
	DefaultResults int           // k when the request has none (default 5)
	Cache          Cache         // nil disables result caching
	Logger         *slog.Logger  // default slog.Default()
	RequestTimeout time.Duration // default 30s
}

// Server serves recommendations from one immutable space.
type Server struct {
	space       *recommend.Space
	opts        Options
	logger      *slog.Logger
	fingerprint string
}

// New creates a Server for space.
func New(space *recommend.Space, opts Options) *Server {
	if opts.MaxResults < 1 {
		opts.MaxResults = 50
	}
	if opts.DefaultResults < 1 {
		opts.DefaultResults = 5
	}
	if opts.DefaultResults > opts.MaxResults {
		opts.DefaultResults = opts.MaxResults
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics.SetSpace(len(space.Items()), space.Vectors().Dim())

	return &Server{
		space:       space,
		opts:        opts,
		logger:      logger,
		fingerprint: space.Fingerprint(),
	}
}

// Router returns the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.opts.RequestTimeout))

	// Routes
	r.Get("/recommendations", s.getRecommendations)
	r.Get("/items", s.listItems)
	r.Get("/items/{itemID}", s.getItem)
	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "No such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only GET is supported")
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
