package transaction

import (
	"context"
	"fmt"

	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

// TransactionProcessor provides the main entry point for processing mutations
// It delegates to specialized components for validation, idempotency and actual processing
type TransactionProcessor struct {
	transactionManager *TransactionManager
	validator          *TransactionValidator
	idempotencyHandler *IdempotencyHandler
}

// NewTransactionProcessor creates a new TransactionProcessor
func NewTransactionProcessor(
	transactionManager *TransactionManager,
	validator *TransactionValidator,
	idempotencyHandler *IdempotencyHandler,
) *TransactionProcessor {
	return &TransactionProcessor{
		transactionManager: transactionManager,
		validator:          validator,
		idempotencyHandler: idempotencyHandler,
	}
}

// Process handles one mutation:
// 1. Validates the request
// 2. Returns the stored record if the key was already used for the same request
// 3. Applies it through the account's queue
// 4. Checks a replay reported by the store against the request
func (p *TransactionProcessor) Process(ctx context.Context, m Mutation) (*usecase.TransactionResult, error) {
	if err := p.validator.ValidateMutation(m); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", m.Direction, err)
	}

	// The store is idempotent on its own; this check only saves a trip through the queue.
	existing, found, err := p.idempotencyHandler.CheckIdempotency(ctx, m)
	if err != nil {
		return nil, err
	}
	if found {
		return &usecase.TransactionResult{Transaction: existing, Replayed: true}, nil
	}

	txn, replayed, err := p.transactionManager.Enqueue(ctx, persistence.AppendRequest{
		AccountID:      m.AccountID,
		Amount:         m.Delta(),
		Category:       m.Category,
		ReferenceID:    m.ReferenceID,
		Description:    m.Description,
		IdempotencyKey: m.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		if err := p.idempotencyHandler.VerifyReplay(txn, m); err != nil {
			return nil, err
		}
	}
	return &usecase.TransactionResult{Transaction: txn, Replayed: replayed}, nil
}
