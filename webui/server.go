// Package webui serves the operator-facing pages: the report upload form, the
// generated email with its download and copy actions, and a health endpoint.
package webui

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"reportmailer/core"
	"reportmailer/logging"
	"reportmailer/metrics"
	"reportmailer/pipeline"
	"reportmailer/webui/static"
)

// Generator runs one email generation. *pipeline.Generator implements it.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	DefaultStrategy() core.Strategy
}

// Server is the HTTP server for the web UI.
//
// Routes:
//   - GET  /          upload form
//   - POST /generate  run the pipeline and show the email
//   - POST /download  return the (edited) email as an attachment
//   - GET  /health    JSON liveness and generation statistics
//   - GET  /static/   embedded stylesheet and script
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	config     ServerConfig
	gen        Generator
	stats      *metrics.Store
	logger     *logging.Logger
	loggingMw  *LoggingMiddleware
	pages      *template.Template
}

// ServerConfig configures the Server.
type ServerConfig struct {
	// Port to listen on (default: 8501)
	Port int

	// Host to bind to (default: "localhost")
	Host string

	// ReadTimeout for HTTP requests (default: 60s)
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses. It must cover the completion calls
	// of a generation (default: 5m)
	WriteTimeout time.Duration

	// IdleTimeout for keep-alive connections (default: 120s)
	IdleTimeout time.Duration

	// ShutdownTimeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration

	// MaxUploadMemory caps the multipart body and the part kept in memory
	// (default: 32 MiB)
	MaxUploadMemory int64

	// APIKeyConfigured hides the API key field of the form
	APIKeyConfigured bool

	// LogSkipPaths are paths to skip logging
	LogSkipPaths []string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:            8501,
		Host:            "localhost",
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MaxUploadMemory: 32 << 20,
		LogSkipPaths:    []string{"/health"},
	}
}

// ServerConfigFrom maps the application configuration onto a ServerConfig.
// The write timeout allows for two completion calls, the most a structured
// generation with commentary makes.
func ServerConfigFrom(cfg *core.Config) ServerConfig {
	sc := DefaultServerConfig()
	sc.Host = cfg.Host
	sc.Port = cfg.Port
	sc.MaxUploadMemory = cfg.MaxUploadMemory
	sc.ShutdownTimeout = cfg.ShutdownTimeout
	sc.APIKeyConfigured = cfg.HasAPIKey()
	if cfg.AITimeout > 0 {
		sc.WriteTimeout = 2*cfg.AITimeout + 30*time.Second
	}
	return sc
}

// NewServer creates a Server around gen. Finished generations are recorded
// in stats; a nil stats gets a private store.
func NewServer(config ServerConfig, gen Generator, stats *metrics.Store, logger *logging.Logger) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("webui: generator is required")
	}
	if stats == nil {
		stats = metrics.NewStore(metrics.DefaultStoreConfig(), time.Now())
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("webui")

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("webui: parse pages: %w", err)
	}
	if config.MaxUploadMemory <= 0 {
		config.MaxUploadMemory = DefaultServerConfig().MaxUploadMemory
	}

	server := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		gen:       gen,
		stats:     stats,
		logger:    logger,
		loggingMw: NewLoggingMiddleware(logger, config.LogSkipPaths...),
		pages:     pages,
	}
	server.setupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server.httpServer = &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	logger.Info("Web UI server created",
		zap.String("addr", addr),
		zap.Bool("api_key_configured", config.APIKeyConfigured),
	)
	return server, nil
}

// setupRoutes configures all the HTTP routes.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static.GetFS())))
	s.mux.HandleFunc("POST /generate", s.handleGenerate)
	s.mux.HandleFunc("POST /download", s.handleDownload)
	s.mux.HandleFunc("GET /{$}", s.handleForm)
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.loggingMw.Handler(s.mux)
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down and returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Web UI server starting", zap.String("addr", s.httpServer.Addr))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, letting in-flight generations
// finish within the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web UI server")

	shutdownCtx := ctx
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}

	s.logger.Info("Web UI server stopped")
	return nil
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
