package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all routes for the server.
// All routes are defined in this single file for easy navigation.
func (s *Server) registerRoutes() {
	// Health check and metrics (public)
	s.echo.GET("/healthz", s.handleHealthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Ingestion entry point. Deliberately unauthenticated: the upstream mail
	// worker invoking it carries no credentials, so the endpoint must only be
	// reachable over a trusted network path (service binding or private
	// network), never the open internet.
	s.echo.POST("/api/receive", s.handleReceive)

	// Report page (basic auth)
	report := s.echo.Group("/report", s.reportAuthMiddleware())
	report.GET("", s.handleReport)
}

// handleHealthCheck reports process liveness.
func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
