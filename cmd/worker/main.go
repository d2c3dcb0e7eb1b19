package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/banksim-dev/banksim/internal/app"
	"github.com/banksim-dev/banksim/internal/auditlog"
	"github.com/banksim-dev/banksim/internal/observability"
	"github.com/banksim-dev/banksim/internal/outbox"
	"github.com/banksim-dev/banksim/internal/platform/cache"
	"github.com/banksim-dev/banksim/internal/platform/db"
	"github.com/banksim-dev/banksim/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	metrics := observability.NewMetrics()
	auditCache := auditlog.NewCache(redisClient, cfg.AuditCacheTTL)
	materializer := auditlog.NewMaterializer(
		outbox.NewPGOutbox(pool),
		auditlog.NewPGStore(pool),
		auditCache,
		metrics,
		logger,
	)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskOutboxMaterialize, Handler: jobs.HandleOutboxMaterialize(materializer, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 3s", Task: jobs.NewOutboxMaterializeTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
