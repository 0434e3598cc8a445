package scheduler

import (
	"context"
	"time"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/usecase/outbox"
	"github.com/fireesports/ledger/internal/domain/usecase/reconciliation"
)

// Job names
const (
	JobOutbox         = "outbox-processor"
	JobReconciliation = "balance-reconciliation"
	JobLockCleanup    = "saga-lock-cleanup"
	JobPoolStats      = "db-pool-stats"
)

// OutboxJob resumes stuck join sagas
func OutboxJob(p *outbox.Processor, interval time.Duration) Job {
	return Job{Name: JobOutbox, Interval: interval, Run: func(ctx context.Context) error {
		_, err := p.ProcessPending(ctx)
		return err
	}}
}

// ReconciliationJob audits balances against transaction records
func ReconciliationJob(a *reconciliation.Auditor, interval time.Duration) Job {
	return Job{Name: JobReconciliation, Interval: interval, Run: func(ctx context.Context) error {
		_, err := a.Sweep(ctx)
		return err
	}}
}

// LockCleanupJob drops expired saga leases
func LockCleanupJob(locks persistence.SagaLockRepository, interval time.Duration) Job {
	return Job{Name: JobLockCleanup, Interval: interval, Run: func(ctx context.Context) error {
		_, err := locks.CleanupExpiredLocks(ctx)
		return err
	}}
}

// PoolStatsJob logs connection pool usage
func PoolStatsJob(logStats func() error, interval time.Duration, logger coreport.Logger) Job {
	return Job{Name: JobPoolStats, Interval: interval, Run: func(context.Context) error {
		if err := logStats(); err != nil {
			logger.Warn("Could not read pool stats", map[string]any{"error": err.Error()})
		}
		return nil
	}}
}
