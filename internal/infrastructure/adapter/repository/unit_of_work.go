package repository

import (
	"context"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
)

// UnitOfWork implements persistence.UnitOfWork. Repositories it returns for a context
// produced by Begin share that transaction.
type UnitOfWork struct {
	*database.TxManager
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *database.ErrorMapper
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(txManager *database.TxManager, timeProvider coreport.TimeProvider, logger coreport.Logger, errorMapper *database.ErrorMapper) *UnitOfWork {
	return &UnitOfWork{
		TxManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  errorMapper,
	}
}

// GetJoinSagaRepository returns a saga repository in the current transaction
func (u *UnitOfWork) GetJoinSagaRepository(ctx context.Context) persistence.JoinSagaRepository {
	return NewJoinSagaRepository(u.DB(ctx), u.logger, u.errorMapper)
}

// GetOutboxRepository returns an outbox repository in the current transaction
func (u *UnitOfWork) GetOutboxRepository(ctx context.Context) persistence.OutboxRepository {
	return NewOutboxRepository(u.DB(ctx), u.timeProvider, u.errorMapper)
}
