package query

import (
	"context"
	"encoding/base64"
	"errors"
	"iter"
	"strconv"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/domain/usecase/balance"
)

// Page sizes for transaction history
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// BalanceReader serves balances, possibly from a cache
type BalanceReader interface {
	Balance(ctx context.Context, accountID string) (*balance.Snapshot, error)
}

// UseCase answers read-only questions about accounts and tournaments
type UseCase struct {
	store    persistence.LedgerStore
	balances BalanceReader
	registry external.TournamentRegistry
	logger   coreport.Logger
}

var _ usecase.QueryUseCase = (*UseCase)(nil)

// NewQueryUseCase creates the query facade
func NewQueryUseCase(
	store persistence.LedgerStore,
	balances BalanceReader,
	registry external.TournamentRegistry,
	logger coreport.Logger,
) *UseCase {
	return &UseCase{
		store:    store,
		balances: balances,
		registry: registry,
		logger:   logger,
	}
}

// GetBalance returns the account's balance
func (u *UseCase) GetBalance(ctx context.Context, accountID string) (*usecase.BalanceView, error) {
	if err := entity.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	snap, err := u.balances.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &usecase.BalanceView{
		AccountID: snap.AccountID,
		Balance:   snap.Balance,
		Version:   snap.Version,
	}, nil
}

// ListTransactions returns one page of history, newest first
func (u *UseCase) ListTransactions(ctx context.Context, accountID, cursor string, limit int) (*usecase.TransactionPage, error) {
	if err := entity.ValidateAccountID(accountID); err != nil {
		return nil, err
	}
	beforeSeq, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	// One extra row tells whether another page follows.
	txns, err := u.store.ListTransactions(ctx, accountID, beforeSeq, limit+1)
	if err != nil {
		return nil, err
	}

	page := &usecase.TransactionPage{Transactions: txns}
	if len(txns) > limit {
		page.Transactions = txns[:limit]
		page.NextCursor = EncodeCursor(page.Transactions[limit-1].Sequence)
	}
	return page, nil
}

// Transactions walks the whole history lazily, fetching a page at a time
func (u *UseCase) Transactions(ctx context.Context, accountID string) iter.Seq2[*entity.Transaction, error] {
	return func(yield func(*entity.Transaction, error) bool) {
		if err := entity.ValidateAccountID(accountID); err != nil {
			yield(nil, err)
			return
		}

		var beforeSeq uint64
		for {
			txns, err := u.store.ListTransactions(ctx, accountID, beforeSeq, MaxPageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, txn := range txns {
				if !yield(txn, nil) {
					return
				}
			}
			if len(txns) < MaxPageSize {
				return
			}
			beforeSeq = txns[len(txns)-1].Sequence
		}
	}
}

// JoinedTournaments lists the account's entries with the tournaments they belong to.
// An entry whose tournament is gone is returned without one.
func (u *UseCase) JoinedTournaments(ctx context.Context, accountID string) ([]*entity.JoinedTournament, error) {
	if err := entity.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	entries, err := u.registry.ListEntries(ctx, accountID)
	if err != nil {
		return nil, err
	}

	tournaments := make(map[string]*entity.Tournament, len(entries))
	joined := make([]*entity.JoinedTournament, 0, len(entries))
	for _, entry := range entries {
		t, seen := tournaments[entry.TournamentID]
		if !seen {
			t, err = u.registry.GetTournament(ctx, entry.TournamentID)
			if err != nil && !errors.Is(err, errs.ErrTournamentNotFound) {
				return nil, err
			}
			if err != nil {
				u.logger.Warn("Joined tournament no longer exists", map[string]any{
					"account_id":    accountID,
					"tournament_id": entry.TournamentID,
				})
			}
			tournaments[entry.TournamentID] = t
		}
		joined = append(joined, &entity.JoinedTournament{Entry: entry, Tournament: t})
	}
	return joined, nil
}

// GetTournament returns a tournament from the registry
func (u *UseCase) GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error) {
	if tournamentID == "" {
		return nil, errs.ErrTournamentNotFound
	}
	return u.registry.GetTournament(ctx, tournamentID)
}

// EncodeCursor turns the sequence of the last record on a page into an opaque cursor
func EncodeCursor(seq uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(seq, 10)))
}

// DecodeCursor reverses EncodeCursor; the empty cursor means the first page
func DecodeCursor(cursor string) (uint64, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, errs.ErrInvalidCursor
	}
	seq, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || seq == 0 {
		return 0, errs.ErrInvalidCursor
	}
	return seq, nil
}
