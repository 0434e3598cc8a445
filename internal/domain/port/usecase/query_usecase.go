package usecase

import (
	"context"
	"iter"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// BalanceView is the balance as presented to clients
type BalanceView struct {
	AccountID string
	Balance   int64
	Version   uint64
}

// TransactionPage is one page of history, newest first
type TransactionPage struct {
	Transactions []*entity.Transaction
	NextCursor   string // empty on the last page
}

// QueryUseCase is the read-only facade used by the presentation layer
type QueryUseCase interface {
	GetBalance(ctx context.Context, accountID string) (*BalanceView, error)

	// ListTransactions returns the page after cursor; an empty cursor starts at the newest record
	ListTransactions(ctx context.Context, accountID, cursor string, limit int) (*TransactionPage, error)

	// Transactions walks the whole history lazily, newest first. Each range over the
	// sequence starts again from the newest record.
	Transactions(ctx context.Context, accountID string) iter.Seq2[*entity.Transaction, error]

	JoinedTournaments(ctx context.Context, accountID string) ([]*entity.JoinedTournament, error)

	GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error)
}

// AccountUseCase manages account lifecycle
type AccountUseCase interface {
	// CreateAccount opens an empty account; calling it again for the same id is a no-op
	CreateAccount(ctx context.Context, accountID string) (*entity.Account, bool, error)

	AccountExists(ctx context.Context, accountID string) (bool, error)

	// SeedAccounts creates and funds the given accounts, idempotently
	SeedAccounts(ctx context.Context, balances map[string]int64) error
}
