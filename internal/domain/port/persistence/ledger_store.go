package persistence

import (
	"context"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// AppendRequest is a single signed delta to apply to an account
type AppendRequest struct {
	AccountID      string
	Amount         int64 // signed minor units, never zero
	Category       entity.Category
	ReferenceID    string
	Description    string
	IdempotencyKey string
}

// CommitListener is told about every committed balance change, after the commit
type CommitListener interface {
	OnCommit(accountID string, balance int64, version uint64)
}

// LedgerStore is the durable record of accounts and their transactions.
// It is the only component that changes a balance.
type LedgerStore interface {
	// CreateAccount stores a new empty account
	//
	// Possible errors:
	// - ErrAccountExists: If the id is taken
	// - ErrUnavailable: If the database cannot be reached
	CreateAccount(ctx context.Context, account *entity.Account) error

	// GetAccount returns the authoritative balance and version
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrUnavailable: If the database cannot be reached
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)

	// AppendTransaction checks and applies the delta and records the transaction in one
	// atomic step. When (account, idempotency key) already exists nothing is applied and
	// the stored record is returned with replayed set.
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrInsufficientFunds: If the delta would take the balance below zero
	// - ErrAmountOverflow: If the balance would overflow
	// - ErrUnavailable: If the database cannot be reached
	AppendTransaction(ctx context.Context, req AppendRequest) (txn *entity.Transaction, replayed bool, err error)

	// FindByIdempotencyKey returns the record stored under (account, key)
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no record uses the key
	FindByIdempotencyKey(ctx context.Context, accountID, key string) (*entity.Transaction, error)

	// GetTransaction returns a record by its id
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the id is unknown
	GetTransaction(ctx context.Context, transactionID string) (*entity.Transaction, error)

	// ListTransactions returns up to limit records of the account, newest first,
	// with a sequence below beforeSeq. A zero beforeSeq starts at the newest record.
	ListTransactions(ctx context.Context, accountID string, beforeSeq uint64, limit int) ([]*entity.Transaction, error)

	// SumCompletedDeltas returns the sum and count of the account's completed records
	SumCompletedDeltas(ctx context.Context, accountID string) (sum int64, count int64, err error)

	// ListAccounts returns up to limit accounts ordered by id, starting after afterID
	ListAccounts(ctx context.Context, afterID string, limit int) ([]*entity.Account, error)
}
