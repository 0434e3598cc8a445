package balance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	mockcore "github.com/fireesports/ledger/mocks/port/core"
	mockpersistence "github.com/fireesports/ledger/mocks/port/persistence"
)

var fixedTime = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestProjector(t *testing.T, age time.Duration) (*Projector, *mockpersistence.MockLedgerStore) {
	mockTime := mockcore.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()
	mockTime.EXPECT().Since(fixedTime).Return(coreport.Duration(age)).Maybe()

	store := mockpersistence.NewMockLedgerStore(t)
	return NewProjector(store, mockTime, mockcore.NewRelaxedLogger(t), 30*time.Second), store
}

func TestProjector_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss loads from the store and the next read is served from memory", func(t *testing.T) {
		p, store := newTestProjector(t, 5*time.Second)
		store.On("GetAccount", mock.Anything, "acc-1").Return(&entity.Account{ID: "acc-1", Balance: 4000, Version: 2}, nil).Once()

		first, err := p.Balance(ctx, "acc-1")
		require.NoError(t, err)
		second, err := p.Balance(ctx, "acc-1")
		require.NoError(t, err)

		assert.Equal(t, int64(4000), first.Balance)
		assert.Equal(t, first, second)
		store.AssertNumberOfCalls(t, "GetAccount", 1)
	})

	t.Run("Stale entry is reloaded", func(t *testing.T) {
		p, store := newTestProjector(t, 31*time.Second)
		p.OnCommit("acc-1", 100, 1)
		store.On("GetAccount", mock.Anything, "acc-1").Return(&entity.Account{ID: "acc-1", Balance: 80, Version: 2}, nil).Once()

		snap, err := p.Balance(ctx, "acc-1")

		require.NoError(t, err)
		assert.Equal(t, int64(80), snap.Balance)
		assert.Equal(t, uint64(2), snap.Version)
	})

	t.Run("Store errors are returned", func(t *testing.T) {
		p, store := newTestProjector(t, 0)
		store.On("GetAccount", mock.Anything, "ghost").Return(nil, errs.ErrAccountNotFound).Once()

		_, err := p.Balance(ctx, "ghost")

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})

	t.Run("Invalidate forces a reload", func(t *testing.T) {
		p, store := newTestProjector(t, time.Second)
		p.OnCommit("acc-1", 100, 1)
		p.Invalidate("acc-1")
		store.On("GetAccount", mock.Anything, "acc-1").Return(&entity.Account{ID: "acc-1", Balance: 100, Version: 1}, nil).Once()

		_, err := p.Balance(ctx, "acc-1")

		require.NoError(t, err)
	})
}

func TestProjector_OnCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("Older versions never replace newer ones", func(t *testing.T) {
		p, _ := newTestProjector(t, time.Second)

		p.OnCommit("acc-1", 100, 5)
		p.OnCommit("acc-1", 50, 4)

		snap, err := p.Balance(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(100), snap.Balance)
		assert.Equal(t, uint64(5), snap.Version)
	})

	t.Run("Commit is visible to the next read", func(t *testing.T) {
		p, _ := newTestProjector(t, time.Second)

		p.OnCommit("acc-1", 100, 1)
		p.OnCommit("acc-1", 40, 2)

		snap, err := p.Balance(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(40), snap.Balance)
	})

	t.Run("Reload never rolls back a newer commit", func(t *testing.T) {
		p, store := newTestProjector(t, time.Minute)
		p.OnCommit("acc-1", 40, 7)
		store.On("GetAccount", mock.Anything, "acc-1").Return(&entity.Account{ID: "acc-1", Balance: 100, Version: 6}, nil).Once()

		snap, err := p.Balance(ctx, "acc-1")

		require.NoError(t, err)
		assert.Equal(t, int64(40), snap.Balance)
		assert.Equal(t, uint64(7), snap.Version)
	})
}
