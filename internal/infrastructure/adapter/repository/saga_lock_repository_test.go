package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/clock"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/model"
)

func TestSagaLockRepository(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*SagaLockRepository, *database.Manager) {
		m := database.NewTestManager(t)
		return NewSagaLockRepository(m.DB(), clock.NewSystemClock(), logger.NewNoopLogger(), m.ErrorMapper()), m
	}

	t.Run("A live lease blocks other owners", func(t *testing.T) {
		repo, _ := setup(t)

		require.NoError(t, repo.AcquireLock(ctx, "join:acc-1:k1", "worker-a", time.Minute))
		err := repo.AcquireLock(ctx, "join:acc-1:k1", "worker-b", time.Minute)

		assert.ErrorIs(t, err, errs.ErrSagaInProgress)
		assert.NoError(t, repo.AcquireLock(ctx, "join:acc-1:k2", "worker-b", time.Minute), "other keys are independent")
	})

	t.Run("An expired lease is taken over", func(t *testing.T) {
		repo, m := setup(t)

		require.NoError(t, repo.AcquireLock(ctx, "join:acc-1:k1", "worker-a", -time.Second))
		require.NoError(t, repo.AcquireLock(ctx, "join:acc-1:k1", "worker-b", time.Minute))

		var row model.SagaLock
		require.NoError(t, m.DB().Where("lock_key = ?", "join:acc-1:k1").Take(&row).Error)
		assert.Equal(t, "worker-b", row.Owner)
	})

	t.Run("Release only drops the owner's lease", func(t *testing.T) {
		repo, _ := setup(t)
		require.NoError(t, repo.AcquireLock(ctx, "join:acc-1:k1", "worker-a", time.Minute))

		require.NoError(t, repo.ReleaseLock(ctx, "join:acc-1:k1", "worker-b"))
		assert.ErrorIs(t, repo.AcquireLock(ctx, "join:acc-1:k1", "worker-b", time.Minute), errs.ErrSagaInProgress)

		require.NoError(t, repo.ReleaseLock(ctx, "join:acc-1:k1", "worker-a"))
		assert.NoError(t, repo.AcquireLock(ctx, "join:acc-1:k1", "worker-b", time.Minute))
	})

	t.Run("Cleanup removes only expired leases", func(t *testing.T) {
		repo, m := setup(t)
		require.NoError(t, repo.AcquireLock(ctx, "stale-1", "worker-a", -time.Minute))
		require.NoError(t, repo.AcquireLock(ctx, "stale-2", "worker-a", -time.Minute))
		require.NoError(t, repo.AcquireLock(ctx, "live", "worker-a", time.Minute))

		removed, err := repo.CleanupExpiredLocks(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		var left int64
		require.NoError(t, m.DB().Model(&model.SagaLock{}).Count(&left).Error)
		assert.Equal(t, int64(1), left)
	})
}
