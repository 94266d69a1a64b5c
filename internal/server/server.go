// Package server serves finished lightning generators over a read-only
// HTTP API.
//
// Routes:
//
//	GET /healthz
//	GET /objects
//	GET /objects/{name}
//	GET /objects/{name}/layers/{id}
//	GET /objects/{name}/layers/{id}/overhang
//	GET /objects/{name}/layers/{id}/image.{format}    svg, png or pdf
//	GET /objects/{name}/layers/{id}/topology.svg
//
// Layer ids outside the object's layers answer 404 with the INVALID_LAYER
// code; ids that are not numbers answer 400.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/cache"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
)

// Server answers queries about a fixed set of generators.
type Server struct {
	gens   []*lightning.Generator
	byName map[string]*lightning.Generator
	cache  cache.Cache
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCache sets the cache for rendered images. The default is an in-memory
// cache of 256 entries.
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLogger sets the request logger. Requests are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server for gens. Generators must be constructed and must
// have unique object names.
func New(gens []*lightning.Generator, opts ...Option) *Server {
	s := &Server{
		gens:   gens,
		byName: make(map[string]*lightning.Generator, len(gens)),
		cache:  cache.NewMemoryCache(256),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, g := range gens {
		s.byName[g.Object().Name] = g
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/objects", func(r chi.Router) {
		r.Get("/", s.handleObjects)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleObject)
			r.Route("/layers/{id}", func(r chi.Router) {
				r.Get("/", s.handleLayer)
				r.Get("/overhang", s.handleOverhang)
				r.Get("/image.{format}", s.handleImage)
				r.Get("/topology.svg", s.handleTopology)
			})
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr, "objects", len(s.gens))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return s.cache.Close()
}
