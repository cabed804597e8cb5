package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// API routes, behind the per-IP HTTP rate limiter
	api := s.echo.Group("/api", newRateLimiter(s.config.HTTPRatePerSecond, s.config.HTTPRateBurst))
	api.GET("/search", s.handleSearch)
	api.GET("/cache/stats", s.handleCacheStats)
	api.POST("/cache/clear", s.handleCacheClear)
}
