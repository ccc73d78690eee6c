package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nDmitry/wpgallery/internal/api/rest"
	"github.com/nDmitry/wpgallery/internal/app"
	"github.com/nDmitry/wpgallery/internal/cache"
	"github.com/nDmitry/wpgallery/internal/config"
	"github.com/nDmitry/wpgallery/internal/feed"
	"github.com/nDmitry/wpgallery/internal/shell"
	"github.com/nDmitry/wpgallery/internal/wpcom"
)

func main() {
	logger := app.Logger()
	slog.SetDefault(logger)

	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Could not load .env file", "error", err)
	}

	cfg, err := config.Read(os.Getenv("CONFIG_PATH"))

	if err != nil {
		logger.Error("Failed to read config", "error", err)
		os.Exit(1)
	}

	app.SetLogLevel(cfg.LogLevel)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received first shutdown signal, starting graceful shutdown...")
		cancel()

		// If we receive a second signal, exit immediately
		<-sigChan
		logger.Info("Received second shutdown signal, exiting immediately...")
		os.Exit(1)
	}()

	var feedCache cache.Cache = cache.Nop{}

	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)

		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}

		feedCache = redisClient
	}


	client := wpcom.NewClient(cfg.APIBaseURL,
		wpcom.WithUserAgent(cfg.UserAgent),
		wpcom.WithTimeout(cfg.FetchTimeout),
	)

	gallery := shell.New(client, cfg.DefaultSite, cfg.PerPage)
	go gallery.Run(ctx)

	// Initialize and run the HTTP server
	server := rest.NewServer(gallery, feedCache, &feed.Generator{}, cfg.Port)

	err = server.Run(ctx)

	if closeErr := feedCache.Close(); closeErr != nil {
		logger.Warn("Failed to close cache", "error", closeErr)
	}

	if err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
