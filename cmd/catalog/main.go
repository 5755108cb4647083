package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/catalog/internal/app"
	"github.com/odyssey-erp/catalog/internal/blobstore"
	"github.com/odyssey-erp/catalog/internal/catalog"
	"github.com/odyssey-erp/catalog/internal/notify"
	"github.com/odyssey-erp/catalog/internal/observability"
	"github.com/odyssey-erp/catalog/internal/platform/cache"
	"github.com/odyssey-erp/catalog/internal/platform/db"
	"github.com/odyssey-erp/catalog/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	sink, closeSink := buildSink(cfg, redisClient, redisOpts, logger)
	defer closeSink()

	metrics := observability.NewMetrics()
	records := catalog.NewRepository(dbpool, logger)
	blobs := blobstore.New(redisClient, blobstore.Options{Bucket: cfg.BlobBucket, Prefix: cfg.BlobPrefix})

	sessions := catalog.NewSessionRegistry(catalog.Deps{
		Records:  records,
		Blobs:    blobs,
		Notifier: sink,
		Logger:   logger,
		Metrics:  metrics.Catalog(),
	}, cfg.CatalogSessionTTL, catalog.WithMaxSessions(cfg.CatalogMaxSessions))
	go sessions.Run(ctx)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalog.NewHandler(logger, sessions),
		JobHandler:     jobs.NewHandler(inspector, logger),
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// buildSink picks the shared notification sink named by NOTIFY_SINK. The log
// sink is always part of the chain.
func buildSink(cfg *app.Config, client *redis.Client, opts asynq.RedisClientOpt, logger *slog.Logger) (notify.Sink, func()) {
	logSink := notify.NewLogSink(logger)
	switch cfg.NotifySink {
	case app.SinkRedis:
		return notify.Fanout{logSink, notify.NewRedisSink(client, cfg.NotifyChannel, logger)}, func() {}
	case app.SinkQueue:
		queue := jobs.NewClient(opts)
		return notify.Fanout{logSink, notify.NewQueueSink(queue, logger)}, func() {
			if err := queue.Close(); err != nil {
				logger.Warn("queue client close", slog.Any("error", err))
			}
		}
	default:
		return logSink, func() {}
	}
}
