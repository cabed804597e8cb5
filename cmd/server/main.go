package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AshZadePM/localreco/internal/app"
	"github.com/AshZadePM/localreco/internal/cache"
	"github.com/AshZadePM/localreco/internal/config"
	"github.com/AshZadePM/localreco/internal/logging"
	"github.com/AshZadePM/localreco/internal/places"
	"github.com/AshZadePM/localreco/internal/reddit"
	"github.com/AshZadePM/localreco/internal/redis"
	"github.com/AshZadePM/localreco/internal/sentiment"
	"github.com/AshZadePM/localreco/internal/server"
	"github.com/AshZadePM/localreco/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupResponseCache picks the shared Redis cache when REDIS_URL is
// configured, otherwise the in-process store. The returned client is nil in
// the in-process case.
func setupResponseCache(cfg *config.Config, store *cache.Cache) (app.ResponseCache, *redis.Client) {
	if cfg.RedisURL == "" {
		slog.Info("Using in-process response cache")
		return app.NewMemoryResponseCache(store, cfg.CacheTTL), nil
	}

	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to create Redis client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	slog.Info("Using Redis response cache")
	return redis.NewSearchCache(client, cfg.CacheTTL), client
}

func runGracefulShutdown(srv *server.Server, redisClient *redis.Client) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	info := version.Get()
	slog.Info("Starting localreco", "version", info.Version, "commit", info.Commit, "env", cfg.AppEnv)

	clock := clockwork.NewRealClock()
	store := cache.New(cfg.CacheTTL, clock)
	admission := cache.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitCeiling, clock)

	responses, redisClient := setupResponseCache(cfg, store)

	search := reddit.NewClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)
	placeClient := places.NewClient(cfg.GooglePlacesAPIKey, store)
	combiner := sentiment.NewCombiner(sentiment.NewLexiconScorer())

	service := app.NewService(search, placeClient, combiner, responses, clock)

	var readiness server.Pinger
	if redisClient != nil {
		readiness = redisClient
	}

	srv := server.New(cfg, service, admission, store, readiness)
	done := runGracefulShutdown(srv, redisClient)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
