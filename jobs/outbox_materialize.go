package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/banksim-dev/banksim/internal/auditlog"
)

// HandleOutboxMaterialize returns an Asynq handler that runs one
// materialization pass.
func HandleOutboxMaterialize(materializer *auditlog.Materializer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		result, err := materializer.MaterializePending(ctx)
		if err != nil {
			if logger != nil {
				logger.Error("materialize outbox", slog.Any("error", err))
			}
			return err
		}
		if logger != nil {
			logger.Info("materialized outbox",
				slog.Int("facts", result.Facts),
				slog.Int("records", result.Records),
				slog.String("result", result.Message),
			)
		}
		return nil
	}
}

// Poller drives materialization on a fixed interval for deployments
// that run without a job queue. A failed pass is logged and the facts
// stay pending for the next tick.
type Poller struct {
	interval     time.Duration
	materializer *auditlog.Materializer
	logger       *slog.Logger
}

// NewPoller constructs a Poller. A non-positive interval falls back to
// three seconds.
func NewPoller(interval time.Duration, materializer *auditlog.Materializer, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{interval: interval, materializer: materializer, logger: logger}
}

// Run polls until the context is cancelled and returns the context
// error.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			result, err := p.materializer.MaterializePending(ctx)
			if err != nil {
				p.logger.Warn("materialize outbox", slog.Any("error", err))
				continue
			}
			if result.Facts > 0 {
				p.logger.Info("materialized outbox",
					slog.Int("facts", result.Facts),
					slog.Int("records", result.Records),
				)
			}
		}
	}
}
