package transaction

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	mockcore "github.com/fireesports/ledger/mocks/port/core"
)

func newTestTimeProvider(t *testing.T) *mockcore.MockTimeProvider {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()
	mockTime.EXPECT().Since(mock.Anything).Return(coreport.Duration(0)).Maybe()
	return mockTime
}

func TestNewTransactionManager(t *testing.T) {
	mockLogger := mockcore.NewRelaxedLogger(t)
	mockTime := newTestTimeProvider(t)

	t.Run("Valid initialization", func(t *testing.T) {
		process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
			return &entity.Transaction{}, false, nil
		}

		tm := NewTransactionManager(mockLogger, mockTime, process, 4, 10)
		defer tm.Shutdown()

		assert.Len(t, tm.shards, 4)
		assert.Equal(t, 10, cap(tm.shards[0]))
	})

	t.Run("Defaults for non-positive sizes", func(t *testing.T) {
		process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
			return nil, false, nil
		}

		tm := NewTransactionManager(mockLogger, mockTime, process, 0, -1)
		defer tm.Shutdown()

		assert.Len(t, tm.shards, defaultShardCount)
		assert.Equal(t, defaultQueueSize, cap(tm.shards[0]))
	})

	t.Run("Nil append function should panic", func(t *testing.T) {
		assert.Panics(t, func() {
			NewTransactionManager(mockLogger, mockTime, nil, 1, 1)
		})
	})
}

func TestTransactionManager_Enqueue(t *testing.T) {
	mockLogger := mockcore.NewRelaxedLogger(t)
	mockTime := newTestTimeProvider(t)

	t.Run("Successful append", func(t *testing.T) {
		process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
			return &entity.Transaction{ID: "tx-1", AccountID: req.AccountID, Amount: req.Amount, BalanceAfter: 4000}, false, nil
		}
		tm := NewTransactionManager(mockLogger, mockTime, process, 2, 10)
		defer tm.Shutdown()

		txn, replayed, err := tm.Enqueue(context.Background(), persistence.AppendRequest{
			AccountID: "acc-1", Amount: -6000, IdempotencyKey: "k1",
		})

		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, "tx-1", txn.ID)
		assert.Equal(t, int64(4000), txn.BalanceAfter)
	})

	t.Run("Error in append is returned", func(t *testing.T) {
		expectedErr := errs.NewInsufficientFundsError("acc-1", 6000, 100)
		process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
			return nil, false, expectedErr
		}
		tm := NewTransactionManager(mockLogger, mockTime, process, 2, 10)
		defer tm.Shutdown()

		txn, _, err := tm.Enqueue(context.Background(), persistence.AppendRequest{AccountID: "acc-1", Amount: -6000})

		assert.Nil(t, txn)
		assert.Equal(t, expectedErr, err)
	})

	t.Run("Appends for one account never overlap", func(t *testing.T) {
		var active, maxActive int32
		process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return &entity.Transaction{AccountID: req.AccountID}, false, nil
		}
		tm := NewTransactionManager(mockLogger, mockTime, process, 8, 50)
		defer tm.Shutdown()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := tm.Enqueue(context.Background(), persistence.AppendRequest{AccountID: "same-account", Amount: 1})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
	})

	t.Run("Sequential appends keep their order", func(t *testing.T) {
		var mu sync.Mutex
		var order []int64
		process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
			mu.Lock()
			order = append(order, req.Amount)
			mu.Unlock()
			return &entity.Transaction{}, false, nil
		}
		tm := NewTransactionManager(mockLogger, mockTime, process, 4, 10)
		defer tm.Shutdown()

		for i := int64(1); i <= 5; i++ {
			_, _, err := tm.Enqueue(context.Background(), persistence.AppendRequest{AccountID: "acc-9", Amount: i})
			require.NoError(t, err)
		}

		assert.Equal(t, []int64{1, 2, 3, 4, 5}, order)
	})

	t.Run("Cancelled context is never applied", func(t *testing.T) {
		var calls int32
		process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
			atomic.AddInt32(&calls, 1)
			return &entity.Transaction{}, false, nil
		}
		tm := NewTransactionManager(mockLogger, mockTime, process, 1, 10)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := tm.Enqueue(ctx, persistence.AppendRequest{AccountID: "acc-1", Amount: 5})
		tm.Shutdown()

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})
}

func TestTransactionManager_Shutdown(t *testing.T) {
	mockLogger := mockcore.NewRelaxedLogger(t)
	mockTime := newTestTimeProvider(t)

	process := func(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
		return &entity.Transaction{}, false, nil
	}
	tm := NewTransactionManager(mockLogger, mockTime, process, 2, 10)

	_, _, err := tm.Enqueue(context.Background(), persistence.AppendRequest{AccountID: "acc-1", Amount: 1})
	require.NoError(t, err)

	tm.Shutdown()
	assert.NotPanics(t, tm.Shutdown, "second shutdown is a no-op")

	_, _, err = tm.Enqueue(context.Background(), persistence.AppendRequest{AccountID: "acc-1", Amount: 1})
	assert.ErrorIs(t, err, errs.ErrQueueClosed)
	assert.True(t, errs.IsRetryable(err))
}
