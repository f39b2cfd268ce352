package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/handler"
	"bookstore/internal/notify"
	"bookstore/internal/promotion"
	"bookstore/internal/repository"
	"bookstore/internal/router"
	"bookstore/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting bookstore API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		logger.Info().Msg("database schema ensured")
	}

	// Initialize repositories
	bookRepo := repository.NewBookRepository(pool, logger)
	promoRepo := repository.NewPromotionRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	evaluatorConfig := promotion.DefaultEvaluatorConfig()
	evaluatorConfig.Locale = cfg.Promotions.Locale
	evaluator := promotion.NewEvaluator(evaluatorConfig)

	mailer, err := notify.New(cfg.SMTP, cfg.Promotions.Locale, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Confirmations are sent in the background so checkout never waits on SMTP.
	notifier := notify.NewDispatcher(mailer, time.Duration(cfg.SMTP.SendTimeout)*time.Second, logger)
	defer func() {
		drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer drainCancel()
		if err := notifier.Close(drainCtx); err != nil {
			logger.Warn().Err(err).Msg("order confirmations dropped at shutdown")
		}
	}()

	// Initialize services
	bookService := service.NewBookService(bookRepo, logger)
	promotionService := service.NewPromotionService(promoRepo, evaluator, logger)
	orderService := service.NewOrderService(orderRepo, bookRepo, promoRepo, evaluator, notifier, logger)

	if len(cfg.Promotions.SeedFiles) > 0 {
		if err := importPromotions(ctx, cfg, promotionService, logger); err != nil {
			return err
		}
	}

	// Initialize HTTP handlers
	bookHandler := handler.NewBookHandler(bookService, logger)
	promotionHandler := handler.NewPromotionHandler(promotionService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(bookHandler, promotionHandler, orderHandler, router.Config{
		APIKey:        cfg.Auth.APIKey,
		AllowedOrigin: cfg.CORS.AllowedOrigin,
	}, logger)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// importPromotions upserts the configured seed files, reading from S3 first
// when it is enabled and from the local file system otherwise.
func importPromotions(ctx context.Context, cfg *config.Config, promotions service.PromotionService, logger zerolog.Logger) error {
	var s3Loader promotion.Loader
	if cfg.S3.Enabled {
		l, err := promotion.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for promotion seed files (S3 disabled)")
	}

	loader := promotion.NewFallbackLoader(s3Loader, promotion.NewFileLoader(logger), cfg.S3.Prefix, logger)

	count, err := promotions.Import(ctx, loader, cfg.Promotions.SeedFiles)
	if err != nil {
		return fmt.Errorf("failed to import promotions: %w", err)
	}

	logger.Info().
		Int("count", count).
		Strs("files", cfg.Promotions.SeedFiles).
		Msg("promotion seed files imported")

	return nil
}
