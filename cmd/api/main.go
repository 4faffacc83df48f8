package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kartalog/internal/asset"
	"kartalog/internal/cache"
	"kartalog/internal/config"
	"kartalog/internal/database"
	"kartalog/internal/handler"
	"kartalog/internal/repository"
	"kartalog/internal/router"
	"kartalog/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting kartalog API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	// Initialize photo asset storage with S3 and local fallback
	var assets asset.Manager
	if cfg.Asset.Backend == "s3" {
		s3Assets, err := asset.NewS3Manager(ctx, cfg.Asset.S3Bucket, cfg.Asset.S3Region, cfg.Asset.S3Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 asset manager, falling back to local file system")
			assets, err = asset.NewLocalManager(cfg.Asset.UploadDir, cfg.Asset.BaseURL, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize asset storage: %w", err)
			}
		} else {
			assets = s3Assets
		}
	} else {
		assets, err = asset.NewLocalManager(cfg.Asset.UploadDir, cfg.Asset.BaseURL, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize asset storage: %w", err)
		}
	}

	// Initialize cache, repository, service and handler
	cacheStore := cache.NewMemoryStore()
	productRepo := repository.NewProductRepository(pool, logger)
	catalogService := service.NewCatalogService(productRepo, cacheStore, assets, cfg.Catalog, logger)
	productHandler := handler.NewProductHandler(catalogService, assets, logger)

	// Locally stored photos are served straight from the upload directory
	staticPrefix, staticDir := "", ""
	if cfg.Asset.Backend == "local" {
		staticPrefix, staticDir = cfg.Asset.BaseURL, cfg.Asset.UploadDir
	}

	// Initialize router
	mux := router.New(productHandler, cfg.Auth.AdminKey, staticPrefix, staticDir, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
