package migration

import (
	"context"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes that gorm tags cannot express
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

var advancedIndexes = []struct {
	name string
	sql  string
}{
	{
		// the outbox poller only ever reads pending rows
		name: "idx_outbox_events_pending",
		sql: `CREATE INDEX IF NOT EXISTS idx_outbox_events_pending
			ON outbox_events (created_at) WHERE status = 'PENDING'`,
	},
	{
		name: "idx_join_sagas_open",
		sql: `CREATE INDEX IF NOT EXISTS idx_join_sagas_open
			ON join_sagas (updated_at) WHERE state IN ('requested', 'fee_charged', 'refunding')`,
	},
	{
		name: "idx_transactions_created_at_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
			ON transactions USING BRIN (created_at) WITH (pages_per_range = 32)`,
	},
}

// CreateAdvancedIndexes creates partial and BRIN indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	for _, idx := range advancedIndexes {
		if err := m.db.WithContext(ctx).Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}
	return nil
}

// CreatePerformanceTweaks applies table storage settings. Failures are logged only.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) {
	tweaks := []string{
		// accounts rows are updated in place on every append
		`ALTER TABLE accounts SET (fillfactor = 80)`,
		`ALTER TABLE transactions ALTER COLUMN account_id SET STATISTICS 1000`,
	}
	for _, stmt := range tweaks {
		if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			m.logger.Warn("Failed to apply performance tweak", map[string]any{
				"statement": stmt,
				"error":     err.Error(),
			})
		}
	}
}
