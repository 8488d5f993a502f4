// Package server exposes the huffviz pipeline and codec over HTTP.
//
// Routes:
//
//	POST /api/compress                       multipart "file" -> compressed artifact
//	POST /api/decompress                     multipart "file" (*.bin) -> decompressed artifact
//	GET  /api/download/{name}                compressed artifact as attachment
//	GET  /api/download_decompressed/{name}   decompressed artifact as attachment
//	POST /api/visualize                      {"text"} -> codes, frequencies, tree, layout, stats
//	POST /api/render                         {"text", "format", "viz_type"} -> rendered bytes
//	GET  /healthz
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/multierr"

	"github.com/matzehuels/huffviz/internal/config"
	"github.com/matzehuels/huffviz/pkg/artifact"
	"github.com/matzehuels/huffviz/pkg/observability"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server routes API requests to the pipeline runner and artifact store.
type Server struct {
	runner    *pipeline.Runner
	store     artifact.Store
	logger    *log.Logger
	hooks     observability.HTTPHooks
	layout    config.LayoutConfig
	maxUpload int64
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHooks sets the HTTP observability hooks. Defaults to observability.HTTP().
func WithHooks(h observability.HTTPHooks) Option {
	return func(s *Server) { s.hooks = h }
}

// WithMaxUploadBytes limits request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) { s.maxUpload = n }
}

// WithLayout sets the layout defaults applied to visualize and render requests.
func WithLayout(l config.LayoutConfig) Option {
	return func(s *Server) { s.layout = l }
}

// New creates a server. The server owns runner and store and closes them in Close.
func New(runner *pipeline.Runner, store artifact.Store, opts ...Option) *Server {
	d := config.Default()
	s := &Server{
		runner:    runner,
		store:     store,
		logger:    log.Default(),
		hooks:     observability.HTTP(),
		layout:    d.Layout,
		maxUpload: d.Server.MaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/compress", s.handleCompress)
		r.Post("/decompress", s.handleDecompress)
		r.Get("/download/{name}", s.handleDownload(artifact.KindCompressed))
		r.Get("/download_decompressed/{name}", s.handleDownload(artifact.KindDecompressed))
		r.Post("/visualize", s.handleVisualize)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound(r.URL.Path))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases the runner's cache and the artifact store.
func (s *Server) Close() error {
	return multierr.Combine(s.runner.Close(), s.store.Close())
}
