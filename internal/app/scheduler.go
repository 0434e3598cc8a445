package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/usecase/outbox"
	"github.com/fireesports/ledger/internal/domain/usecase/reconciliation"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/scheduler"
)

const poolStatsInterval = 5 * time.Minute

func (a *application) InitScheduler(
	processor *outbox.Processor,
	auditor *reconciliation.Auditor,
	locks persistence.SagaLockRepository,
	m *database.Manager,
	log coreport.Logger,
) (*scheduler.Scheduler, error) {
	reconcileEvery := a.config.Reconciliation.Interval
	if !a.config.Reconciliation.Enabled {
		reconcileEvery = 0
	}

	return scheduler.New(log,
		scheduler.OutboxJob(processor, a.config.Outbox.Interval),
		scheduler.ReconciliationJob(auditor, reconcileEvery),
		scheduler.LockCleanupJob(locks, a.config.Saga.LockCleanupEvery),
		scheduler.PoolStatsJob(m.LogPoolStats, poolStatsInterval, log),
	)
}

// StartScheduler runs the background jobs for the lifetime of the app
func (a *application) StartScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			return s.Shutdown()
		},
	})
}
