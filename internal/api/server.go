package api

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/reloquent/bqddl/internal/config"
	"github.com/reloquent/bqddl/internal/typemap"
)

// Server is the REST API server for DDL previews.
type Server struct {
	config   *config.Config
	typeMap  *typemap.TypeMap
	logger   *slog.Logger
	port     int
	server   *http.Server
	staticFS fs.FS
	devMode  bool
}

// Option configures the API server.
type Option func(*Server)

// WithStaticFS sets the embedded filesystem for serving the preview page.
func WithStaticFS(fsys fs.FS) Option {
	return func(s *Server) {
		s.staticFS = fsys
	}
}

// WithDevMode enables CORS for development.
func WithDevMode(dev bool) Option {
	return func(s *Server) {
		s.devMode = dev
	}
}

// WithTypeMap replaces the default logical type mappings.
func WithTypeMap(tm *typemap.TypeMap) Option {
	return func(s *Server) {
		s.typeMap = tm
	}
}

// New creates a new API server.
func New(cfg *config.Config, logger *slog.Logger, port int, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		config:  cfg,
		typeMap: typemap.New(),
		logger:  logger,
		port:    port,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routes wrapped in the server's middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := requestLogger(s.logger, mux)
	if s.devMode {
		handler = corsMiddleware(handler)
	}
	return handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting preview server", "port", s.port, "dev_mode", s.devMode)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/types", s.handleTypes)
	mux.HandleFunc("POST /api/ddl/column", s.handleColumn)
	mux.HandleFunc("POST /api/ddl/table", s.handleTable)
	mux.HandleFunc("POST /api/ddl/database", s.handleDatabase)
	mux.HandleFunc("POST /api/ddl/model", s.handleModel)
	mux.HandleFunc("POST /api/validate", s.handleValidate)

	if s.staticFS != nil {
		mux.Handle("/", s.staticHandler())
	}
}

// staticHandler serves the preview page. Unknown non-API paths fall back to
// index.html.
func (s *Server) staticHandler() http.Handler {
	fileServer := http.FileServer(http.FS(s.staticFS))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			errorResponse(w, http.StatusNotFound, "not found")
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}
		if f, err := s.staticFS.Open(path); err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}

		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
