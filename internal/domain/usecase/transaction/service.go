package transaction

import (
	"context"
	"fmt"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

// Config sizes the per-account queue
type Config struct {
	ConcurrencyLevel int // number of queue shards
	QueueSize        int // buffered requests per shard
}

// Service is the transaction use case. All balance mutations go through it.
type Service struct {
	manager   *TransactionManager
	processor *TransactionProcessor
	logger    coreport.Logger
}

var _ usecase.TransactionUseCase = (*Service)(nil)

// NewTransactionService creates a new transaction service
func NewTransactionService(
	store persistence.LedgerStore,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Service {
	manager := NewTransactionManager(logger, timeProvider, store.AppendTransaction, cfg.ConcurrencyLevel, cfg.QueueSize)
	processor := NewTransactionProcessor(manager, NewTransactionValidator(), NewIdempotencyHandler(store))

	return &Service{
		manager:   manager,
		processor: processor,
		logger:    logger,
	}
}

// Credit applies a positive delta to the account
func (s *Service) Credit(ctx context.Context, req usecase.CreditRequest) (*usecase.TransactionResult, error) {
	return s.apply(ctx, Mutation{
		Direction:      entity.Credit,
		AccountID:      req.AccountID,
		Amount:         req.Amount,
		Category:       req.Category,
		ReferenceID:    req.ReferenceID,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
	})
}

// Debit applies a negative delta to the account if the balance covers it
func (s *Service) Debit(ctx context.Context, req usecase.DebitRequest) (*usecase.TransactionResult, error) {
	return s.apply(ctx, Mutation{
		Direction:      entity.Debit,
		AccountID:      req.AccountID,
		Amount:         req.Amount,
		Category:       req.Category,
		ReferenceID:    req.ReferenceID,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
	})
}

// AddFunds credits a bonus top-up
func (s *Service) AddFunds(ctx context.Context, accountID string, amount int64, description, idempotencyKey string) (*usecase.TransactionResult, error) {
	if description == "" {
		description = "Funds added"
	}
	return s.Credit(ctx, usecase.CreditRequest{
		AccountID:      accountID,
		Amount:         amount,
		Category:       entity.CategoryBonus,
		Description:    description,
		IdempotencyKey: idempotencyKey,
	})
}

// Withdraw debits a withdrawal
func (s *Service) Withdraw(ctx context.Context, accountID string, amount int64, description, idempotencyKey string) (*usecase.TransactionResult, error) {
	if description == "" {
		description = "Withdrawal"
	}
	return s.Debit(ctx, usecase.DebitRequest{
		AccountID:      accountID,
		Amount:         amount,
		Category:       entity.CategoryWithdrawal,
		Description:    description,
		IdempotencyKey: idempotencyKey,
	})
}

// AwardPrize credits prize money for a tournament
func (s *Service) AwardPrize(ctx context.Context, accountID, tournamentID string, amount int64, idempotencyKey string) (*usecase.TransactionResult, error) {
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required for a prize", errs.ErrInvalidRequest)
	}
	return s.Credit(ctx, usecase.CreditRequest{
		AccountID:      accountID,
		Amount:         amount,
		Category:       entity.CategoryPrize,
		Description:    fmt.Sprintf("Prize for tournament %s", tournamentID),
		ReferenceID:    tournamentID,
		IdempotencyKey: idempotencyKey,
	})
}

func (s *Service) apply(ctx context.Context, m Mutation) (*usecase.TransactionResult, error) {
	result, err := s.processor.Process(ctx, m)
	if err != nil {
		s.logFailure(m, err)
		return nil, err
	}

	fields := map[string]any{
		"account_id":      m.AccountID,
		"transaction_id":  result.Transaction.ID,
		"idempotency_key": m.IdempotencyKey,
		"amount":          result.Transaction.Amount,
		"category":        string(m.Category),
		"balance_after":   result.Transaction.BalanceAfter,
	}
	if result.Replayed {
		s.logger.Info("Idempotent replay of transaction", fields)
	} else {
		s.logger.Info("Transaction applied", fields)
	}
	return result, nil
}

func (s *Service) logFailure(m Mutation, err error) {
	fields := errs.LogFields(err)
	fields["account_id"] = m.AccountID
	fields["idempotency_key"] = m.IdempotencyKey
	fields["direction"] = m.Direction.String()

	switch errs.KindOf(err) {
	case errs.KindInternal:
		s.logger.Error("Transaction processing failed", fields)
	case errs.KindUnavailable:
		s.logger.Warn("Transaction not applied, dependency unavailable", fields)
	default:
		s.logger.Info("Transaction rejected", fields)
	}
}

// Shutdown stops the queue workers after the queued work is done
func (s *Service) Shutdown() {
	s.manager.Shutdown()
}
