package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/m-mizutani/pagecap/pkg/utils/async"
)

// config holds internal HTTP server configuration
type config struct {
	addr       string
	secret     string
	outputDir  string
	strategy   model.Strategy
	dispatcher *async.Dispatcher
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithSecret requires capture requests to be signed with secret
func WithSecret(secret string) Option {
	return func(c *config) {
		c.secret = secret
	}
}

// WithOutputDir sets the directory used when a request has no output_dir
func WithOutputDir(dir string) Option {
	return func(c *config) {
		c.outputDir = dir
	}
}

// WithStrategy reports the resolved SingleFile strategy in /health
func WithStrategy(s model.Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithDispatcher sets the dispatcher for async captures
func WithDispatcher(d *async.Dispatcher) Option {
	return func(c *config) {
		c.dispatcher = d
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	dispatcher *async.Dispatcher
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	captureUC interfaces.CaptureUseCase,
	settings *model.Settings,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr: "localhost:8080",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.dispatcher == nil {
		cfg.dispatcher = async.New()
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", newHealthHandler(settings, cfg.strategy))

	captureHandler := NewCaptureHandler(captureUC, settings,
		cfg.secret, cfg.outputDir, cfg.dispatcher)
	router.Post("/capture", captureHandler.Handle)

	return &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		dispatcher: cfg.dispatcher,
	}, nil
}

// Shutdown stops accepting requests and waits for async captures
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Server.Shutdown(ctx); err != nil {
		return err
	}
	return s.dispatcher.Wait(ctx)
}
