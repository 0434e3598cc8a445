package outbox

import (
	"context"
	"errors"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

const (
	defaultBatchSize  = 50
	defaultMaxRetries = 10
)

// Config holds processor settings
type Config struct {
	BatchSize  int
	MaxRetries int // attempts before an event is parked as FAILED
}

// Stats summarises one processing pass
type Stats struct {
	Processed int
	Retried   int
	Failed    int
	Skipped   int
}

// Processor resumes join sagas that were left mid-way, using the events queued in the
// outbox alongside them
type Processor struct {
	outbox      persistence.OutboxRepository
	tournaments usecase.TournamentUseCase
	logger      coreport.Logger
	batchSize   int
	maxRetries  int
}

// NewProcessor creates a new outbox processor
func NewProcessor(
	outbox persistence.OutboxRepository,
	tournaments usecase.TournamentUseCase,
	logger coreport.Logger,
	cfg Config,
) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Processor{
		outbox:      outbox,
		tournaments: tournaments,
		logger:      logger,
		batchSize:   cfg.BatchSize,
		maxRetries:  cfg.MaxRetries,
	}
}

// ProcessPending handles one batch of pending events, oldest first
func (p *Processor) ProcessPending(ctx context.Context) (Stats, error) {
	var stats Stats

	events, err := p.outbox.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to get pending outbox events", map[string]any{"error": err.Error()})
		return stats, err
	}

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		switch p.processEvent(ctx, event) {
		case outcomeProcessed:
			stats.Processed++
		case outcomeRetried:
			stats.Retried++
		case outcomeFailed:
			stats.Failed++
		default:
			stats.Skipped++
		}
	}

	if len(events) > 0 {
		p.logger.Info("Outbox batch processed", map[string]any{
			"events":    len(events),
			"processed": stats.Processed,
			"retried":   stats.Retried,
			"failed":    stats.Failed,
			"skipped":   stats.Skipped,
		})
	}
	return stats, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeProcessed
	outcomeRetried
	outcomeFailed
)

func (p *Processor) processEvent(ctx context.Context, event *entity.OutboxEvent) outcome {
	fields := map[string]any{
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"retries":    event.RetryCount,
	}

	payload, err := event.SagaResume()
	if err != nil {
		p.logger.Error("Unreadable outbox event", mergeFields(fields, map[string]any{"error": err.Error()}))
		return p.park(ctx, event, err.Error(), fields)
	}
	fields["saga_id"] = payload.SagaID
	fields["account_id"] = payload.AccountID
	fields["transaction_id"] = payload.FeeTransactionID

	result, err := p.tournaments.Resume(ctx, payload.AccountID, payload.SagaKey)
	switch {
	case err == nil:
		if markErr := p.outbox.MarkAsProcessed(ctx, event.ID); markErr != nil {
			p.logger.Error("Failed to mark outbox event processed", mergeFields(fields, map[string]any{"error": markErr.Error()}))
			return outcomeSkipped
		}
		p.logger.Info("Join saga resumed from outbox", mergeFields(fields, map[string]any{"state": string(result.State)}))
		return outcomeProcessed

	case errors.Is(err, errs.ErrSagaInProgress):
		// Someone is driving the saga right now; look again next pass.
		p.logger.Debug("Saga busy, outbox event left pending", fields)
		return outcomeSkipped

	case errors.Is(err, errs.ErrSagaNotFound):
		return p.park(ctx, event, err.Error(), fields)
	}

	if event.RetryCount+1 >= p.maxRetries {
		p.logger.Error("Join saga needs manual reconciliation", mergeFields(fields, errs.LogFields(err)))
		return p.park(ctx, event, err.Error(), fields)
	}

	p.logger.Warn("Join saga resume failed, will retry", mergeFields(fields, map[string]any{"error": err.Error()}))
	if incErr := p.outbox.IncrementRetryCount(ctx, event.ID, err.Error()); incErr != nil {
		p.logger.Error("Failed to increment outbox retry count", mergeFields(fields, map[string]any{"error": incErr.Error()}))
	}
	return outcomeRetried
}

func (p *Processor) park(ctx context.Context, event *entity.OutboxEvent, reason string, fields map[string]any) outcome {
	if err := p.outbox.MarkAsFailed(ctx, event.ID, reason); err != nil {
		p.logger.Error("Failed to mark outbox event failed", mergeFields(fields, map[string]any{"error": err.Error()}))
		return outcomeSkipped
	}
	return outcomeFailed
}

func mergeFields(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
