package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/usecase/balance"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/registry"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/repository"
)

const connectTimeout = time.Minute

// InitDatabase connects, migrates when configured, and closes the pool on shutdown
func (a *application) InitDatabase(lc fx.Lifecycle, log coreport.Logger, clk coreport.TimeProvider) (*database.Manager, error) {
	m := database.NewManager(database.NewConfig(a.config.Database), log, clk)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if _, err := m.Connect(ctx); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return m.Close()
		},
	})
	return m, nil
}

func (a *application) InitLedgerStore(m *database.Manager, clk coreport.TimeProvider, log coreport.Logger) *repository.LedgerStore {
	return repository.NewLedgerStore(m.DB(), clk, log, m.ErrorMapper(), m.MetricsCollector())
}

// InitBalanceProjector subscribes the projection to the store's commits
func (a *application) InitBalanceProjector(store *repository.LedgerStore, clk coreport.TimeProvider, log coreport.Logger) *balance.Projector {
	p := balance.NewProjector(store, clk, log, a.config.Cache.TTL)
	store.SetCommitListener(p)
	return p
}

// InitLedgerPort hands out the store only once the projector listens to it
func (a *application) InitLedgerPort(store *repository.LedgerStore, _ *balance.Projector) persistence.LedgerStore {
	return store
}

// SagaRepositories are the stores behind the join workflow
type SagaRepositories struct {
	fx.Out

	Sagas      persistence.JoinSagaRepository
	Locks      persistence.SagaLockRepository
	Outbox     persistence.OutboxRepository
	UnitOfWork persistence.UnitOfWork
}

func (a *application) InitSagaRepositories(m *database.Manager, clk coreport.TimeProvider, log coreport.Logger) SagaRepositories {
	db, mapper := m.DB(), m.ErrorMapper()
	return SagaRepositories{
		Sagas:      repository.NewJoinSagaRepository(db, log, mapper),
		Locks:      repository.NewSagaLockRepository(db, clk, log, mapper),
		Outbox:     repository.NewOutboxRepository(db, clk, mapper),
		UnitOfWork: repository.NewUnitOfWork(m.TxManager(), clk, log, mapper),
	}
}

// Registries holds the registry port and, for the locally hosted registry, its admin side
type Registries struct {
	fx.Out

	Registry external.TournamentRegistry
	Admin    external.TournamentAdmin
}

// InitRegistry selects the tournament registry by registry.mode
func (a *application) InitRegistry(m *database.Manager, clk coreport.TimeProvider, log coreport.Logger) (Registries, error) {
	switch a.config.Registry.Mode {
	case "http":
		client, err := registry.NewHTTPRegistry(registry.Options{
			BaseURL:  a.config.Registry.BaseURL,
			APIKey:   a.config.Registry.APIKey,
			Timeout:  a.config.Registry.Timeout,
			RetryMax: a.config.Registry.RetryMax,
		}, log)
		if err != nil {
			return Registries{}, err
		}
		return Registries{Registry: client}, nil
	case "local":
		local := repository.NewTournamentRegistry(m.DB(), clk, log, m.ErrorMapper())
		return Registries{Registry: local, Admin: local}, nil
	default:
		return Registries{}, fmt.Errorf("unsupported registry mode: %q", a.config.Registry.Mode)
	}
}
