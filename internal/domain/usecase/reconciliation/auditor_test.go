package reconciliation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	mockcore "github.com/fireesports/ledger/mocks/port/core"
	mockpersistence "github.com/fireesports/ledger/mocks/port/persistence"
)

func TestAuditor_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("Walks every page and reports mismatches", func(t *testing.T) {
		store := mockpersistence.NewMockLedgerStore(t)
		store.On("ListAccounts", mock.Anything, "", 2).Return([]*entity.Account{
			{ID: "acc-1", Balance: 100, Version: 2},
			{ID: "acc-2", Balance: 50, Version: 1},
		}, nil).Once()
		store.On("ListAccounts", mock.Anything, "acc-2", 2).Return([]*entity.Account{
			{ID: "acc-3", Balance: 0, Version: 0},
		}, nil).Once()
		store.On("SumCompletedDeltas", mock.Anything, "acc-1").Return(int64(100), int64(2), nil).Once()
		store.On("SumCompletedDeltas", mock.Anything, "acc-2").Return(int64(70), int64(2), nil).Once()
		store.On("SumCompletedDeltas", mock.Anything, "acc-3").Return(int64(0), int64(0), nil).Once()

		report, err := NewAuditor(store, mockcore.NewRelaxedLogger(t), 2).Sweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, report.AccountsChecked)
		require.Len(t, report.Mismatches, 1)
		assert.Equal(t, Mismatch{AccountID: "acc-2", Balance: 50, SumOfDeltas: 70, Version: 1, RecordCount: 2}, report.Mismatches[0])
	})

	t.Run("An unreadable account does not stop the sweep", func(t *testing.T) {
		store := mockpersistence.NewMockLedgerStore(t)
		store.On("ListAccounts", mock.Anything, "", 10).Return([]*entity.Account{
			{ID: "acc-1", Balance: 10, Version: 1},
			{ID: "acc-2", Balance: 20, Version: 1},
		}, nil).Once()
		store.On("SumCompletedDeltas", mock.Anything, "acc-1").Return(int64(0), int64(0), errs.ErrUnavailable).Once()
		store.On("SumCompletedDeltas", mock.Anything, "acc-2").Return(int64(20), int64(1), nil).Once()

		report, err := NewAuditor(store, mockcore.NewRelaxedLogger(t), 10).Sweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, report.AccountsChecked)
		assert.Empty(t, report.Mismatches)
	})

	t.Run("Listing failure aborts", func(t *testing.T) {
		store := mockpersistence.NewMockLedgerStore(t)
		store.On("ListAccounts", mock.Anything, "", 10).Return(nil, errs.ErrUnavailable).Once()

		_, err := NewAuditor(store, mockcore.NewRelaxedLogger(t), 10).Sweep(ctx)

		assert.ErrorIs(t, err, errs.ErrUnavailable)
	})
}
