package repository

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/clock"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
)

type commitRecord struct {
	accountID string
	balance   int64
	version   uint64
}

type recordingListener struct {
	mu      sync.Mutex
	commits []commitRecord
}

func (l *recordingListener) OnCommit(accountID string, balance int64, version uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commits = append(l.commits, commitRecord{accountID, balance, version})
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.commits)
}

func newTestStore(t *testing.T) (*LedgerStore, *recordingListener) {
	t.Helper()
	m := database.NewTestManager(t)
	log := logger.NewNoopLogger()
	clk := clock.NewSystemClock()

	store := NewLedgerStore(m.DB(), clk, log, m.ErrorMapper(), database.NewMetricsCollector(log, clk, 0))
	listener := &recordingListener{}
	store.SetCommitListener(listener)
	return store, listener
}

func openAccount(t *testing.T, store *LedgerStore, id string, balance int64) {
	t.Helper()
	acc, err := entity.NewAccount(id, clock.NewSystemClock())
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(context.Background(), acc))
	if balance > 0 {
		_, _, err := store.AppendTransaction(context.Background(), persistence.AppendRequest{
			AccountID:      id,
			Amount:         balance,
			Category:       entity.CategoryBonus,
			IdempotencyKey: "opening:" + id,
		})
		require.NoError(t, err)
	}
}

func debit(accountID string, amount int64, key string) persistence.AppendRequest {
	return persistence.AppendRequest{
		AccountID:      accountID,
		Amount:         -amount,
		Category:       entity.CategoryWithdrawal,
		IdempotencyKey: key,
	}
}

func TestLedgerStore_CreateAccount(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	openAccount(t, store, "acc-1", 0)

	acc, err := store.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance)
	assert.Equal(t, uint64(0), acc.Version)

	again, err := entity.NewAccount("acc-1", clock.NewSystemClock())
	require.NoError(t, err)
	assert.ErrorIs(t, store.CreateAccount(ctx, again), errs.ErrAccountExists)

	_, err = store.GetAccount(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestLedgerStore_AppendTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Retry with the same key applies once and returns the same record", func(t *testing.T) {
		store, listener := newTestStore(t)
		openAccount(t, store, "acc-1", 100)

		first, replayed, err := store.AppendTransaction(ctx, debit("acc-1", 60, "k1"))
		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, int64(40), first.BalanceAfter)
		assert.Equal(t, uint64(2), first.AccountVersion)
		assert.Equal(t, entity.StatusCompleted, first.Status)

		second, replayed, err := store.AppendTransaction(ctx, debit("acc-1", 60, "k1"))
		require.NoError(t, err)
		assert.True(t, replayed)
		assert.Equal(t, first.ID, second.ID)

		acc, err := store.GetAccount(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(40), acc.Balance)
		assert.Equal(t, 2, listener.count(), "replays are not commits")
	})

	t.Run("Insufficient funds leaves no trace", func(t *testing.T) {
		store, _ := newTestStore(t)
		openAccount(t, store, "acc-1", 30)

		_, _, err := store.AppendTransaction(ctx, debit("acc-1", 31, "k1"))

		var insufficient *errs.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(30), insufficient.Balance)
		_, err = store.FindByIdempotencyKey(ctx, "acc-1", "k1")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("Unknown account", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, _, err := store.AppendTransaction(ctx, debit("ghost", 1, "k1"))

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})

	t.Run("Overflow is rejected", func(t *testing.T) {
		store, _ := newTestStore(t)
		openAccount(t, store, "acc-1", 10)

		_, _, err := store.AppendTransaction(ctx, persistence.AppendRequest{
			AccountID:      "acc-1",
			Amount:         math.MaxInt64 - 5,
			Category:       entity.CategoryPrize,
			IdempotencyKey: "big",
		})

		assert.ErrorIs(t, err, errs.ErrAmountOverflow)
	})

	t.Run("Listener sees committed balance and version", func(t *testing.T) {
		store, listener := newTestStore(t)
		openAccount(t, store, "acc-1", 100)

		_, _, err := store.AppendTransaction(ctx, debit("acc-1", 25, "k1"))
		require.NoError(t, err)

		require.Equal(t, 2, listener.count())
		assert.Equal(t, commitRecord{"acc-1", 75, 2}, listener.commits[1])
	})
}

func TestLedgerStore_ConcurrentDebitsOnlyOneFits(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	openAccount(t, store, "acc-1", 50)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = store.AppendTransaction(ctx, debit("acc-1", 40, fmt.Sprintf("k-%d", i)))
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errs.KindOf(err) == errs.KindInsufficientFunds:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	acc, err := store.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Balance)
}

func TestLedgerStore_ConcurrentMutationsKeepTheBooksBalanced(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	const initial = int64(500)
	openAccount(t, store, "acc-1", initial)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int64
	)
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := debit("acc-1", int64(10+i%7*10), fmt.Sprintf("op-%d", i))
			if i%3 == 0 {
				req.Amount, req.Category = -req.Amount, entity.CategoryBonus
			}
			txn, _, err := store.AppendTransaction(ctx, req)
			if err != nil {
				assert.Equal(t, errs.KindInsufficientFunds, errs.KindOf(err))
				return
			}
			assert.GreaterOrEqual(t, txn.BalanceAfter, int64(0))
			mu.Lock()
			applied += txn.Amount
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	acc, err := store.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, initial+applied, acc.Balance)
	assert.GreaterOrEqual(t, acc.Balance, int64(0))

	sum, count, err := store.SumCompletedDeltas(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, acc.Balance, sum)
	assert.Equal(t, int64(acc.Version), count)
}

func TestLedgerStore_ListTransactions(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	const initial = int64(1000)
	openAccount(t, store, "acc-1", initial)
	openAccount(t, store, "acc-2", 1000)

	for i := 0; i < 7; i++ {
		_, _, err := store.AppendTransaction(ctx, debit("acc-1", int64(i+1), fmt.Sprintf("k-%d", i)))
		require.NoError(t, err)
		_, _, err = store.AppendTransaction(ctx, debit("acc-2", 1, fmt.Sprintf("k-%d", i)))
		require.NoError(t, err)
	}

	var (
		all    []*entity.Transaction
		before uint64
	)
	for {
		page, err := store.ListTransactions(ctx, "acc-1", before, 3)
		require.NoError(t, err)
		all = append(all, page...)
		if len(page) < 3 {
			break
		}
		before = page[len(page)-1].Sequence
	}

	require.Len(t, all, 8, "opening credit plus seven debits")
	var sum int64
	for i, txn := range all {
		assert.Equal(t, "acc-1", txn.AccountID)
		if i > 0 {
			assert.Less(t, txn.Sequence, all[i-1].Sequence, "newest first")
		}
		if txn.Category != entity.CategoryBonus {
			sum += txn.Amount
		}
	}

	acc, err := store.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, acc.Balance-initial, sum)

	byID, err := store.GetTransaction(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Sequence, byID.Sequence)

	accounts, err := store.ListAccounts(ctx, "acc-1", 10)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "acc-2", accounts[0].ID)
}
