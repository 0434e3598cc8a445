package persistence

import (
	"context"
	"time"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// JoinSagaRepository stores the progress of tournament join workflows
type JoinSagaRepository interface {
	// FindByKey returns the saga stored for (account, key)
	//
	// Possible errors:
	// - ErrSagaNotFound: If no saga uses the key
	FindByKey(ctx context.Context, accountID, key string) (*entity.JoinSaga, error)

	// Create stores a new saga
	//
	// Possible errors:
	// - ErrSagaExists: If (account, key) is already stored
	Create(ctx context.Context, saga *entity.JoinSaga) error

	// Save persists the current state of an existing saga
	Save(ctx context.Context, saga *entity.JoinSaga) error

	// ListByAccount returns the account's sagas, newest first
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*entity.JoinSaga, error)
}

// SagaLockRepository hands out expiring leases so that a join saga is driven by one
// worker at a time, across every instance sharing the database
type SagaLockRepository interface {
	// AcquireLock takes the lease for key until it is released or expires
	//
	// Possible errors:
	// - ErrSagaInProgress: If someone else holds an unexpired lease
	AcquireLock(ctx context.Context, key, owner string, duration time.Duration) error

	// ReleaseLock drops the lease if owner still holds it
	ReleaseLock(ctx context.Context, key, owner string) error

	// CleanupExpiredLocks removes leases that ran out
	CleanupExpiredLocks(ctx context.Context) (int64, error)
}

// OutboxRepository stores follow-up work recorded alongside state changes
type OutboxRepository interface {
	Save(ctx context.Context, event *entity.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*entity.OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, eventID string) error
	MarkAsFailed(ctx context.Context, eventID, errMsg string) error
	IncrementRetryCount(ctx context.Context, eventID, errMsg string) error
}
