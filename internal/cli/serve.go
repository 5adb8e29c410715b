package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "storefront/docs"
	"storefront/internal/caching"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/jobs"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, migrate, newLogger(cfg.LogLevel))
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool, logger *logrus.Logger) error {
	pool, err := database.NewPool(ctx, database.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	}, logger)
	if err != nil {
		return err
	}
	defer database.ClosePool(pool, logger)

	if migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	var cacheSvc caching.CacheService = caching.NopCache{}
	if cfg.Redis.Addr != "" {
		cacheSvc = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	}
	defer cacheSvc.Close()

	var imageStore services.ImageStore
	if cfg.Minio.Endpoint != "" {
		imageStore, err = services.NewMinioService(services.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Bucket:    cfg.Minio.Bucket,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("initialize image store: %w", err)
		}
		if err := imageStore.EnsureBucketExists(ctx); err != nil {
			logger.WithError(err).Warn("Image bucket unavailable, uploads will fail")
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewKafkaProducer(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.WithError(err).Warn("Kafka unavailable, order events disabled")
		} else {
			publisher = producer
		}
	}
	defer publisher.Close()

	productRepo := repositories.NewProductRepo(pool)
	productSvc := services.NewProductService(productRepo, cacheSvc, imageStore, cfg.Redis.TTL, logger)
	orderSvc := services.NewOrderService(pool, services.NewPriceReconciler(), publisher, logger)

	scheduler, err := jobs.NewJobScheduler(logger)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr != "" {
		warmer := jobs.NewCatalogCacheWarmer(productRepo, cacheSvc, cfg.Redis.TTL, logger)
		if err := scheduler.AddJob("catalog-cache-refresh", cfg.Jobs.CacheRefreshInterval, warmer.Run); err != nil {
			return err
		}
	}
	reporter := jobs.NewPoolStatsReporter(jobs.PgxPoolStats(pool), logger)
	if err := scheduler.AddJob("pool-stats", cfg.Jobs.PoolStatsInterval, reporter.Run); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.WithError(err).Error("Scheduler shutdown failed")
		}
	}()

	e := handlers.NewRouter(handlers.Handlers{
		Health:   handlers.NewHealthHandlers(pool, cacheSvc, version),
		Products: handlers.NewProductHandlers(productSvc, logger),
		Orders:   handlers.NewOrderHandlers(orderSvc, logger),
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"version": version,
		}).Info("Storefront server starting")
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		return err
	}

	logger.Info("Server gracefully stopped")
	return nil
}
