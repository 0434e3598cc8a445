package app

import (
	"context"

	"go.uber.org/fx"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/domain/usecase/account"
	"github.com/fireesports/ledger/internal/domain/usecase/balance"
	"github.com/fireesports/ledger/internal/domain/usecase/outbox"
	"github.com/fireesports/ledger/internal/domain/usecase/query"
	"github.com/fireesports/ledger/internal/domain/usecase/reconciliation"
	"github.com/fireesports/ledger/internal/domain/usecase/tournament"
	"github.com/fireesports/ledger/internal/domain/usecase/transaction"
)

// InitTransactionService starts the per-account queues and drains them on shutdown
func (a *application) InitTransactionService(
	lc fx.Lifecycle,
	store persistence.LedgerStore,
	clk coreport.TimeProvider,
	log coreport.Logger,
) *transaction.Service {
	s := transaction.NewTransactionService(store, clk, log, transaction.Config{
		ConcurrencyLevel: a.config.Transaction.ConcurrencyLevel,
		QueueSize:        a.config.Transaction.QueueSize,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			s.Shutdown()
			return nil
		},
	})
	return s
}

func (a *application) InitTransactionUseCase(s *transaction.Service) usecase.TransactionUseCase {
	return s
}

type tournamentDeps struct {
	fx.In

	Sagas        persistence.JoinSagaRepository
	Locks        persistence.SagaLockRepository
	UnitOfWork   persistence.UnitOfWork
	Registry     external.TournamentRegistry
	Admin        external.TournamentAdmin `optional:"true"`
	Transactions usecase.TransactionUseCase
	IDs          coreport.IDGenerator
	Clock        coreport.TimeProvider
	Logger       coreport.Logger
}

func (a *application) InitTournamentUseCase(d tournamentDeps) usecase.TournamentUseCase {
	return tournament.NewCoordinator(tournament.Dependencies{
		Sagas:        d.Sagas,
		Locks:        d.Locks,
		UnitOfWork:   d.UnitOfWork,
		Registry:     d.Registry,
		Admin:        d.Admin,
		Transactions: d.Transactions,
		IDs:          d.IDs,
		TimeProvider: d.Clock,
		Logger:       d.Logger,
	}, tournament.Config{LockTTL: a.config.Saga.LockTTL})
}

func (a *application) InitAccountUseCase(
	store persistence.LedgerStore,
	transactions usecase.TransactionUseCase,
	clk coreport.TimeProvider,
	log coreport.Logger,
) usecase.AccountUseCase {
	return account.NewAccountUseCase(store, transactions, clk, log)
}

func (a *application) InitQueryUseCase(
	store persistence.LedgerStore,
	balances *balance.Projector,
	registry external.TournamentRegistry,
	log coreport.Logger,
) usecase.QueryUseCase {
	return query.NewQueryUseCase(store, balances, registry, log)
}

func (a *application) InitOutboxProcessor(
	events persistence.OutboxRepository,
	tournaments usecase.TournamentUseCase,
	log coreport.Logger,
) *outbox.Processor {
	return outbox.NewProcessor(events, tournaments, log, outbox.Config{
		BatchSize:  a.config.Outbox.BatchSize,
		MaxRetries: a.config.Outbox.MaxRetries,
	})
}

func (a *application) InitAuditor(store persistence.LedgerStore, log coreport.Logger) *reconciliation.Auditor {
	return reconciliation.NewAuditor(store, log, a.config.Reconciliation.BatchSize)
}

// SeedAccounts creates and funds the configured development accounts
func (a *application) SeedAccounts(lc fx.Lifecycle, accounts usecase.AccountUseCase) {
	if len(a.config.Seed.Accounts) == 0 {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return accounts.SeedAccounts(ctx, a.config.Seed.Accounts)
		},
	})
}
