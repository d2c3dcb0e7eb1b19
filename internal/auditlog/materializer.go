package auditlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/banksim-dev/banksim/internal/observability"
	"github.com/banksim-dev/banksim/internal/outbox"
)

// Result summarises a materializer pass.
type Result struct {
	Facts   int    `json:"facts"`
	Records int    `json:"records"`
	Message string `json:"message"`
}

// Materializer drains the outbox and converts pending facts into audit
// records. Processing is at-least-once: the record append and the fact
// removal are two separate store writes, so a crash between them
// replays the same facts on the next run.
type Materializer struct {
	outbox  outbox.Outbox
	store   Store
	cache   *Cache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewMaterializer constructs a materializer. Cache and metrics may be
// nil.
func NewMaterializer(ob outbox.Outbox, store Store, cache *Cache, metrics *observability.Metrics, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{outbox: ob, store: store, cache: cache, metrics: metrics, logger: logger}
}

// MaterializePending runs a single pass: snapshot all pending facts,
// group them by kind, convert each group into audit records, append
// the records and remove the consumed facts. Any error aborts the run
// with the outbox untouched; the next tick retries.
func (m *Materializer) MaterializePending(ctx context.Context) (Result, error) {
	start := time.Now()
	result, err := m.run(ctx)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.metrics.ObserveMaterializerRun(outcome, result.Facts, result.Records, time.Since(start))
	return result, err
}

func (m *Materializer) run(ctx context.Context) (Result, error) {
	facts, err := m.outbox.DrainAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("drain outbox: %w", err)
	}
	if len(facts) == 0 {
		return Result{Message: "no pending facts"}, nil
	}

	groups := make(map[outbox.Kind][]outbox.Fact)
	var order []outbox.Kind
	for _, f := range facts {
		if _, seen := groups[f.Kind]; !seen {
			order = append(order, f.Kind)
		}
		groups[f.Kind] = append(groups[f.Kind], f)
	}

	var records []Record
	for _, kind := range order {
		convert, known := converterFor(kind)
		if !known {
			// Unknown kinds are discarded so a bad fact cannot wedge
			// the queue; removal below still covers them.
			m.logger.Warn("unhandled fact kind, discarding",
				slog.String("kind", string(kind)),
				slog.Int("count", len(groups[kind])))
			continue
		}
		for _, fact := range groups[kind] {
			converted, err := convertFact(convert, fact)
			if err != nil {
				m.logger.Warn("dropping unconvertible fact",
					slog.String("fact_id", fact.ID.String()),
					slog.String("kind", string(kind)),
					slog.Any("error", err))
				continue
			}
			records = append(records, converted...)
		}
	}

	// An interrupted run must fail as a whole rather than commit a
	// partial pass.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if err := m.store.AppendMany(ctx, records); err != nil {
		return Result{}, fmt.Errorf("append audit records: %w", err)
	}
	if err := m.outbox.RemoveMany(ctx, facts); err != nil {
		return Result{}, fmt.Errorf("remove consumed facts: %w", err)
	}
	if err := m.cache.Bump(ctx); err != nil {
		m.logger.Warn("audit cache bump failed", slog.Any("error", err))
	}

	m.logger.Info("materialized pending facts",
		slog.Int("facts", len(facts)), slog.Int("records", len(records)))
	return Result{Facts: len(facts), Records: len(records), Message: "facts materialized"}, nil
}

type converter func(outbox.Envelope) ([]Record, error)

func convertFact(convert converter, fact outbox.Fact) ([]Record, error) {
	env, err := outbox.Decode(fact.Payload)
	if err != nil {
		return nil, err
	}
	return convert(env)
}

func converterFor(kind outbox.Kind) (converter, bool) {
	switch kind {
	case outbox.KindAccountCreated:
		return convertCreated, true
	case outbox.KindAccountLinked:
		return convertLinked, true
	case outbox.KindAccountReassigned:
		return convertReassigned, true
	case outbox.KindAccountClosed:
		return convertClosed, true
	case outbox.KindMoneyDeposited:
		return convertDeposited, true
	case outbox.KindMoneyWithdrawn:
		return convertWithdrawn, true
	case outbox.KindMoneyTransferred:
		return convertTransferred, true
	default:
		return nil, false
	}
}

func convertCreated(env outbox.Envelope) ([]Record, error) {
	return []Record{newRecord(EventCreated, env.Account.ID, nil)}, nil
}

// convertLinked targets the linked account, not the newly created one:
// the trail of the existing account shows who linked to it.
func convertLinked(env outbox.Envelope) ([]Record, error) {
	if env.Account.LinkedAccountID == nil {
		return nil, errors.New("linked fact without linked account id")
	}
	return []Record{newRecord(EventLinked, *env.Account.LinkedAccountID, map[string]string{
		MetaLinkedAccountID: env.Account.ID.String(),
	})}, nil
}

func convertReassigned(env outbox.Envelope) ([]Record, error) {
	return []Record{newRecord(EventReassigned, env.Account.ID, map[string]string{
		MetaAccountOwner: env.Account.HolderPublicID.String(),
	})}, nil
}

func convertClosed(env outbox.Envelope) ([]Record, error) {
	return []Record{newRecord(EventClosed, env.Account.ID, nil)}, nil
}

func convertDeposited(env outbox.Envelope) ([]Record, error) {
	if env.Amount == nil {
		return nil, errors.New("deposit fact without amount")
	}
	return []Record{newRecord(EventDeposit, env.Account.ID, map[string]string{
		MetaAmount:  env.Amount.String(),
		MetaBalance: env.Account.Balance.String(),
	})}, nil
}

func convertWithdrawn(env outbox.Envelope) ([]Record, error) {
	if env.Amount == nil {
		return nil, errors.New("withdraw fact without amount")
	}
	return []Record{newRecord(EventWithdraw, env.Account.ID, map[string]string{
		MetaAmount:  env.Amount.String(),
		MetaBalance: env.Account.Balance.String(),
	})}, nil
}

// convertTransferred expands the single transfer fact into one record
// per side.
func convertTransferred(env outbox.Envelope) ([]Record, error) {
	if env.Counterparty == nil || env.Amount == nil {
		return nil, errors.New("transfer fact missing counterparty or amount")
	}
	from, to := env.Account, *env.Counterparty
	return []Record{
		newRecord(EventTransfer, from.ID, map[string]string{
			MetaToAccount: to.ID.String(),
			MetaAmount:    env.Amount.String(),
			MetaBalance:   from.Balance.String(),
		}),
		newRecord(EventTransfer, to.ID, map[string]string{
			MetaFromAccount: from.ID.String(),
			MetaAmount:      env.Amount.String(),
			MetaBalance:     to.Balance.String(),
		}),
	}, nil
}
