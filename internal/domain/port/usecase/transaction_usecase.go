package usecase

import (
	"context"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// CreditRequest adds money to an account
type CreditRequest struct {
	AccountID      string
	Amount         int64 // positive minor units
	Category       entity.Category
	Description    string
	ReferenceID    string
	IdempotencyKey string
}

// DebitRequest takes money from an account
type DebitRequest struct {
	AccountID      string
	Amount         int64 // positive minor units
	Category       entity.Category
	Description    string
	ReferenceID    string // optional
	IdempotencyKey string
}

// TransactionResult is the record a mutation produced, or found on replay
type TransactionResult struct {
	Transaction *entity.Transaction
	Replayed    bool
}

// TransactionUseCase is the only entry point for balance mutations
type TransactionUseCase interface {
	// Credit applies a positive delta
	//
	// Possible errors: ErrAccountNotFound, ErrInvalidAmount, ErrMissingIdempotencyKey,
	// ErrIdempotencyConflict, ErrUnavailable
	Credit(ctx context.Context, req CreditRequest) (*TransactionResult, error)

	// Debit applies a negative delta if the balance covers it
	//
	// Possible errors: as Credit, plus ErrInsufficientFunds
	Debit(ctx context.Context, req DebitRequest) (*TransactionResult, error)

	// AddFunds credits a bonus top-up
	AddFunds(ctx context.Context, accountID string, amount int64, description, idempotencyKey string) (*TransactionResult, error)

	// Withdraw debits a withdrawal
	Withdraw(ctx context.Context, accountID string, amount int64, description, idempotencyKey string) (*TransactionResult, error)

	// AwardPrize credits prize money won in a tournament
	AwardPrize(ctx context.Context, accountID, tournamentID string, amount int64, idempotencyKey string) (*TransactionResult, error)
}
