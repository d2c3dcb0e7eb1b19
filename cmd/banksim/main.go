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
	"golang.org/x/sync/errgroup"

	"github.com/banksim-dev/banksim/internal/accounts"
	"github.com/banksim-dev/banksim/internal/app"
	"github.com/banksim-dev/banksim/internal/auditlog"
	"github.com/banksim-dev/banksim/internal/holders"
	"github.com/banksim-dev/banksim/internal/ledger"
	"github.com/banksim-dev/banksim/internal/observability"
	"github.com/banksim-dev/banksim/internal/outbox"
	"github.com/banksim-dev/banksim/internal/platform/cache"
	"github.com/banksim-dev/banksim/internal/platform/db"
	"github.com/banksim-dev/banksim/jobs"
)

type stores struct {
	holders  holders.Repository
	accounts accounts.Repository
	outbox   outbox.Outbox
	audit    auditlog.Store
}

func openStores(ctx context.Context, cfg *app.Config, logger *slog.Logger) (stores, func(), error) {
	if cfg.StoreDriver == app.StoreMemory {
		return stores{
			holders:  holders.NewMemoryRepository(),
			accounts: accounts.NewMemoryRepository(),
			outbox:   outbox.NewMemoryOutbox(),
			audit:    auditlog.NewMemoryStore(),
		}, func() {}, nil
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return stores{}, nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return stores{}, nil, err
	}
	logger.Info("connected to postgres")
	return stores{
		holders:  holders.NewRepository(pool),
		accounts: accounts.NewRepository(pool),
		outbox:   outbox.NewPGOutbox(pool),
		audit:    auditlog.NewPGStore(pool),
	}, pool.Close, nil
}

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

	st, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("open stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStores()

	var auditCache *auditlog.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, audit cache disabled", slog.Any("error", err))
	} else {
		auditCache = auditlog.NewCache(redisClient, cfg.AuditCacheTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	holderService := holders.NewService(st.holders)
	holderHandler := holders.NewHandler(logger, holderService)

	accountService := accounts.NewService(st.accounts, st.holders)
	accountHandler := accounts.NewHandler(logger, accountService)

	ledgerService := ledger.NewService(st.accounts, st.holders, st.outbox, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	auditService := auditlog.NewService(st.audit, auditCache)
	auditHandler := auditlog.NewHandler(logger, auditService)

	materializer := auditlog.NewMaterializer(st.outbox, st.audit, auditCache, metrics, logger)

	var jobHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		HolderHandler:   holderHandler,
		AccountHandler:  accountHandler,
		LedgerHandler:   ledgerHandler,
		AuditLogHandler: auditHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	poller := jobs.NewPoller(cfg.OutboxPollInterval, materializer, logger)
	group.Go(func() error {
		logger.Info("starting outbox poller", slog.Duration("interval", cfg.OutboxPollInterval))
		if err := poller.Run(groupCtx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("runtime", slog.Any("error", err))
		os.Exit(1)
	}
}
