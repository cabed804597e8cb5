package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AshZadePM/localreco/internal/cache"
	"github.com/AshZadePM/localreco/internal/domain"
	"github.com/AshZadePM/localreco/internal/version"
)

func (s *Server) handleSearch(c echo.Context) error {
	city := c.QueryParam("city")
	query := c.QueryParam("q")

	if city == "" || query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "city and q query parameters are required",
		})
	}

	ctx := c.Request().Context()
	resp, admitted, _ := cache.WithRateLimit(s.admission, c.RealIP(), func() (*domain.SearchResponse, error) {
		return s.app.SearchAndAggregate(ctx, city, query), nil
	})
	if !admitted {
		c.Response().Header().Set("Retry-After", "60")
		return c.JSON(http.StatusTooManyRequests, map[string]string{
			"error": "too many searches, slow down",
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCacheStats(c echo.Context) error {
	// Sweep first so the key count reflects live entries only.
	s.store.EvictExpired()
	stats := s.store.Stats()
	return c.JSON(http.StatusOK, map[string]any{
		"keyCount":  stats.Keys,
		"hitCount":  stats.Hits,
		"missCount": stats.Misses,
	})
}

func (s *Server) handleCacheClear(c echo.Context) error {
	s.store.Clear()
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":       "unhealthy",
				"failed_check": "redis",
				"error":        err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, version.Get())
}
