package transaction

import (
	"fmt"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
)

// TransactionValidator provides validation for mutation requests
type TransactionValidator struct{}

// NewTransactionValidator creates a new TransactionValidator
func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{}
}

// Mutation is the direction-neutral shape of a credit or debit
type Mutation struct {
	Direction      entity.Direction
	AccountID      string
	Amount         int64
	Category       entity.Category
	ReferenceID    string
	Description    string
	IdempotencyKey string
}

// Delta is the signed amount the mutation applies
func (m Mutation) Delta() int64 {
	if m.Direction == entity.Debit {
		return -m.Amount
	}
	return m.Amount
}

// ValidateMutation validates all mutation fields
func (v *TransactionValidator) ValidateMutation(m Mutation) error {
	if err := entity.ValidateAccountID(m.AccountID); err != nil {
		return err
	}

	if m.Amount <= 0 {
		return fmt.Errorf("%w: got %d", errs.ErrInvalidAmount, m.Amount)
	}

	if err := v.validateCategory(m.Category, m.Direction); err != nil {
		return err
	}

	return entity.ValidateIdempotencyKey(m.IdempotencyKey)
}

// validateCategory checks the category exists and fits the direction
func (v *TransactionValidator) validateCategory(category entity.Category, direction entity.Direction) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", errs.ErrInvalidCategory, category)
	}
	if !category.AllowedFor(direction) {
		return fmt.Errorf("%w: %s cannot be used for a %s", errs.ErrInvalidCategory, category, direction)
	}
	return nil
}
