package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fireesports/ledger/internal/domain/entity"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/model"
)

// OutboxRepository stores follow-up work in outbox_events
type OutboxRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	errorMapper  *database.ErrorMapper
}

var _ persistence.OutboxRepository = (*OutboxRepository)(nil)

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB, timeProvider coreport.TimeProvider, errorMapper *database.ErrorMapper) *OutboxRepository {
	return &OutboxRepository{
		db:           db,
		timeProvider: timeProvider,
		errorMapper:  errorMapper,
	}
}

// Save stores a new event
func (r *OutboxRepository) Save(ctx context.Context, event *entity.OutboxEvent) error {
	row := model.OutboxEvent{
		ID:          event.ID,
		Type:        string(event.Type),
		Payload:     event.Payload,
		Status:      string(event.Status),
		RetryCount:  event.RetryCount,
		LastError:   event.LastError,
		CreatedAt:   event.CreatedAt,
		ProcessedAt: event.ProcessedAt,
	}
	return r.errorMapper.MapError(r.db.WithContext(ctx).Create(&row).Error, "save outbox event", nil)
}

// GetPendingEvents returns the oldest pending events
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*entity.OutboxEvent, error) {
	var rows []model.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.EventStatusPending).
		Order("created_at ASC").
		Limit(clampLimit(limit, defaultListLimit, maxListLimit)).
		Find(&rows).Error
	if err != nil {
		return nil, r.errorMapper.MapError(err, "get pending outbox events", nil)
	}

	events := make([]*entity.OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = &entity.OutboxEvent{
			ID:          row.ID,
			Type:        entity.OutboxEventType(row.Type),
			Payload:     row.Payload,
			Status:      entity.OutboxEventStatus(row.Status),
			RetryCount:  row.RetryCount,
			LastError:   row.LastError,
			CreatedAt:   row.CreatedAt,
			ProcessedAt: row.ProcessedAt,
		}
	}
	return events, nil
}

// MarkAsProcessed marks an event as processed
func (r *OutboxRepository) MarkAsProcessed(ctx context.Context, eventID string) error {
	now := r.timeProvider.Now()
	return r.update(ctx, eventID, "mark outbox event processed", map[string]any{
		"status":       entity.EventStatusProcessed,
		"processed_at": &now,
	})
}

// MarkAsFailed parks an event for manual handling
func (r *OutboxRepository) MarkAsFailed(ctx context.Context, eventID, errMsg string) error {
	return r.update(ctx, eventID, "mark outbox event failed", map[string]any{
		"status":     entity.EventStatusFailed,
		"last_error": errMsg,
	})
}

// IncrementRetryCount records a failed processing attempt
func (r *OutboxRepository) IncrementRetryCount(ctx context.Context, eventID, errMsg string) error {
	return r.update(ctx, eventID, "increment outbox retry count", map[string]any{
		"retry_count": gorm.Expr("retry_count + 1"),
		"last_error":  errMsg,
	})
}

func (r *OutboxRepository) update(ctx context.Context, eventID, operation string, values map[string]any) error {
	err := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", eventID).
		Updates(values).Error
	return r.errorMapper.MapError(err, operation, nil)
}
