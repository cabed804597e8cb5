// Package server exposes the search pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AshZadePM/localreco/internal/cache"
	"github.com/AshZadePM/localreco/internal/config"
	"github.com/AshZadePM/localreco/internal/domain"
)

// searchService is the slice of the application layer the server needs.
type searchService interface {
	SearchAndAggregate(ctx context.Context, city, query string) *domain.SearchResponse
}

// Pinger checks a backing service for readiness (nil when not configured).
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       searchService
	admission *cache.RateLimiter
	store     *cache.Cache
	redis     Pinger
	startTime time.Time
}

func New(cfg *config.Config, app searchService, admission *cache.RateLimiter, store *cache.Cache, redis Pinger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		admission: admission,
		store:     store,
		redis:     redis,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "port", s.config.Port)
	return s.echo.Start(":" + s.config.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		},
	})
}
