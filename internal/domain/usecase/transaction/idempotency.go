package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
)

// IdempotencyHandler provides idempotency checking for ledger mutations
type IdempotencyHandler struct {
	store persistence.LedgerStore
}

// NewIdempotencyHandler creates a new IdempotencyHandler
func NewIdempotencyHandler(store persistence.LedgerStore) *IdempotencyHandler {
	return &IdempotencyHandler{
		store: store,
	}
}

// CheckIdempotency looks for a record already stored under the mutation's key.
// Returns the record and true when it matches the request, or an
// IdempotencyConflictError when the key was used for a different amount or category.
func (h *IdempotencyHandler) CheckIdempotency(ctx context.Context, m Mutation) (*entity.Transaction, bool, error) {
	txn, err := h.store.FindByIdempotencyKey(ctx, m.AccountID, m.IdempotencyKey)
	if errors.Is(err, errs.ErrTransactionNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if err := h.VerifyReplay(txn, m); err != nil {
		return nil, true, err
	}
	return txn, true, nil
}

// VerifyReplay compares a stored record with the request that hit its key
func (h *IdempotencyHandler) VerifyReplay(txn *entity.Transaction, m Mutation) error {
	if txn.SamePayload(m.Delta(), m.Category) {
		return nil
	}
	return &errs.IdempotencyConflictError{
		AccountID:        m.AccountID,
		IdempotencyKey:   m.IdempotencyKey,
		TransactionID:    txn.ID,
		ExistingAmount:   txn.Amount,
		ExistingCategory: string(txn.Category),
		RequestAmount:    m.Delta(),
		RequestCategory:  string(m.Category),
	}
}
