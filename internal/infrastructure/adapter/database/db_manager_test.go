package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireesports/ledger/internal/infrastructure/adapter/database/migration"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/model"
)

func TestManager_ConnectMigratesSchema(t *testing.T) {
	m := NewTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Ping(ctx))

	for _, table := range []string{"accounts", "transactions", "tournaments", "tournament_entries", "join_sagas", "saga_locks", "outbox_events"} {
		assert.True(t, m.DB().Migrator().HasTable(table), table)
	}

	version, err := m.MigrationManager().GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, migration.CurrentSchemaVersion, version)

	// a second run sees the version and does nothing
	require.NoError(t, m.MigrationManager().MigrateAll(ctx))
	var count int64
	require.NoError(t, m.DB().Model(&model.MigrationVersion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, m.LogPoolStats())
}

func TestManager_BalanceCheckConstraint(t *testing.T) {
	db := NewTestDB(t)

	err := db.Create(&model.Account{ID: "acc-1", Balance: -1}).Error

	require.Error(t, err)
	assert.Equal(t, ConstraintError, NewErrorMapper().Classify(err))
}

func TestTxManager(t *testing.T) {
	m := NewTestManager(t)
	txm := m.TxManager()
	ctx := context.Background()

	t.Run("Rollback discards writes", func(t *testing.T) {
		txCtx, err := txm.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, txm.DB(txCtx).Create(&model.Account{ID: "rolled-back"}).Error)
		require.NoError(t, txm.Rollback(txCtx))

		var count int64
		require.NoError(t, txm.DB(ctx).Model(&model.Account{}).Where("id = ?", "rolled-back").Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Commit keeps writes", func(t *testing.T) {
		txCtx, err := txm.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, txm.DB(txCtx).Create(&model.Account{ID: "committed"}).Error)
		require.NoError(t, txm.Commit(txCtx))

		var count int64
		require.NoError(t, txm.DB(ctx).Model(&model.Account{}).Where("id = ?", "committed").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Commit without Begin", func(t *testing.T) {
		assert.ErrorIs(t, txm.Commit(ctx), ErrNoTransaction)
	})
}
