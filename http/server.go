// Package http exposes the service over HTTP: the remote-invocation ingestion
// endpoint, the protected report page, and the operational endpoints.
package http

import (
	"context"
	"log/slog"
	"net"

	"github.com/labstack/echo/v4"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/internal/pipeline"
)

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr string

	// Report page basic-auth credentials. ReportPassword may be either a
	// bcrypt hash or a plain value; see internal/auth.VerifyPassword.
	ReportUser     string
	ReportPassword string

	// Domain services
	mailService authinbox.MailService
	pipeline    *pipeline.Pipeline
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr   string
	Logger *slog.Logger

	ReportUser     string
	ReportPassword string

	// Template renderer
	Renderer echo.Renderer

	// Domain services
	MailService authinbox.MailService
	Pipeline    *pipeline.Pipeline
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:           cfg.Addr,
		logger:         cfg.Logger,
		ReportUser:     cfg.ReportUser,
		ReportPassword: cfg.ReportPassword,
		mailService:    cfg.MailService,
		pipeline:       cfg.Pipeline,
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true

	// Set template renderer if provided
	if cfg.Renderer != nil {
		s.echo.Renderer = cfg.Renderer
	}

	// Register middleware and routes
	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
