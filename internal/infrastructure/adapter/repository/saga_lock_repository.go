package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/model"
)

// SagaLockRepository hands out expiring leases stored in saga_locks
type SagaLockRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *database.ErrorMapper
}

var _ persistence.SagaLockRepository = (*SagaLockRepository)(nil)

// NewSagaLockRepository creates a new SagaLockRepository instance
func NewSagaLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger, errorMapper *database.ErrorMapper) *SagaLockRepository {
	return &SagaLockRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  errorMapper,
	}
}

// AcquireLock takes the lease in one upsert: a new key is inserted, an expired lease is
// taken over, and a live lease leaves the row untouched.
func (r *SagaLockRepository) AcquireLock(ctx context.Context, key, owner string, duration time.Duration) error {
	now := r.timeProvider.Now()
	expiresAt := now.Add(duration)

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO saga_locks (lock_key, owner, locked_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (lock_key) DO UPDATE
		SET owner = excluded.owner,
		    locked_at = excluded.locked_at,
		    expires_at = excluded.expires_at,
		    updated_at = excluded.updated_at
		WHERE saga_locks.expires_at <= ?`,
		key, owner, now, expiresAt, now, now,
		now,
	)
	if result.Error != nil {
		if isContextError(result.Error) {
			return fmt.Errorf("lock acquisition timeout: %w", result.Error)
		}
		r.logger.Error("Database error acquiring saga lock", map[string]any{
			"lock_key": key,
			"error":    result.Error.Error(),
		})
		return r.errorMapper.MapError(result.Error, "acquire saga lock", nil)
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("Saga lock is held by another worker", map[string]any{"lock_key": key})
		return errs.ErrSagaInProgress
	}

	r.logger.Debug("Saga lock acquired", map[string]any{
		"lock_key":   key,
		"owner":      owner,
		"expires_at": expiresAt,
	})
	return nil
}

// ReleaseLock drops the lease if owner still holds it. A lease that expired and was
// taken over by someone else is left alone.
func (r *SagaLockRepository) ReleaseLock(ctx context.Context, key, owner string) error {
	result := r.db.WithContext(ctx).
		Where("lock_key = ? AND owner = ?", key, owner).
		Delete(&model.SagaLock{})

	if result.Error != nil {
		if isContextError(result.Error) {
			r.logger.Warn("Context ended while releasing saga lock, it will expire", map[string]any{
				"lock_key": key,
				"error":    result.Error.Error(),
			})
			return nil
		}
		return r.errorMapper.MapError(result.Error, "release saga lock", nil)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Saga lock was no longer held at release", map[string]any{
			"lock_key": key,
			"owner":    owner,
		})
	}
	return nil
}

// CleanupExpiredLocks removes all expired leases
func (r *SagaLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", r.timeProvider.Now()).
		Delete(&model.SagaLock{})
	if result.Error != nil {
		return 0, r.errorMapper.MapError(result.Error, "cleanup saga locks", nil)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Expired saga locks removed", map[string]any{
			"locks_removed": result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}
