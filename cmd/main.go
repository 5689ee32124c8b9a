/*
Package main is the entry point for the Aura Feed server.

It is responsible for loading configuration, initializing the global logging system,
connecting Postgres and the optional NATS and Redis infrastructure, setting up the
HTTP server, and gracefully handling operating system interrupt signals (SIGINT,
SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"aurafeed/internal/app/db"
	"aurafeed/internal/app/directory"
	"aurafeed/internal/app/feed"
	"aurafeed/internal/app/feedstore"
	"aurafeed/internal/app/identity"
	"aurafeed/internal/configs"
	"aurafeed/internal/handler"
	"aurafeed/internal/pkg/logx"
	"aurafeed/internal/pkg/pow"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("feed_page_size", cfg.FeedPageSize).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect Postgres and run migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	// Optional Redis recent-posts cache
	var cache *feedstore.RecentCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logx.Fatal(err, "Failed to connect to Redis")
		}
		cache = feedstore.NewRecentCache(redisClient)
		logx.Info("Recent-posts cache enabled", "redis_addr", cfg.RedisAddr)
	}

	// Optional NATS bridge for multi-instance deployments
	var bridge *feedstore.NatsBridge
	if cfg.NATSURL != "" {
		bridge, err = feedstore.NewNatsBridge(cfg.NATSURL)
		if err != nil {
			logx.Fatal(err, "Failed to connect to NATS")
		}
		defer bridge.Close()
		logx.Info("Cross-instance insertion bridge enabled", "nats_url", cfg.NATSURL)
	}

	// Assemble the feed service
	hub := feed.NewHub()
	feedService := feedstore.NewService(feedstore.NewPostgresStore(pool), hub, cache, bridge)
	if err := feedService.Start(); err != nil {
		logx.Fatal(err, "Failed to start feed service")
	}

	userStore := directory.NewPostgresStore(pool)
	resolver := identity.NewResolver(userStore)

	deps := &handler.AppDeps{
		Config:     cfg,
		Users:      userStore,
		Resolver:   resolver,
		Feed:       feedService,
		PowManager: pow.NewManager(cfg.PowDifficulty),
	}

	// Setup HTTP server and routes
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Aura Feed Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Close()

	logx.Info("Server gracefully stopped.")
}
