package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSagaTransitions(t *testing.T) {
	allowed := []struct{ from, to SagaState }{
		{SagaRequested, SagaFeeCharged},
		{SagaRequested, SagaFailed},
		{SagaFeeCharged, SagaRegistered},
		{SagaFeeCharged, SagaRefunding},
		{SagaRefunding, SagaFailed},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to SagaState }{
		{SagaRequested, SagaRegistered},
		{SagaRequested, SagaRefunding},
		{SagaFeeCharged, SagaFailed},
		{SagaRefunding, SagaRegistered},
		{SagaRegistered, SagaRefunding},
		{SagaFailed, SagaFeeCharged},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestJoinSagaLifecycle(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	saga := &JoinSaga{ID: "saga-1", Attempt: 1, State: SagaRequested}

	t.Run("Refund path ends failed", func(t *testing.T) {
		require.NoError(t, saga.TransitionTo(SagaFeeCharged, fixedTime))
		saga.FeeTransactionID = "fee-1"
		require.NoError(t, saga.TransitionTo(SagaRefunding, fixedTime))
		require.NoError(t, saga.TransitionTo(SagaFailed, fixedTime))
		assert.True(t, saga.State.IsTerminal())
		assert.Equal(t, "saga-1:1", saga.RegistrationID())
	})

	t.Run("Illegal transition leaves state untouched", func(t *testing.T) {
		err := saga.TransitionTo(SagaRegistered, fixedTime)
		assert.Error(t, err)
		assert.Equal(t, SagaFailed, saga.State)
	})

	t.Run("Restart opens a new attempt", func(t *testing.T) {
		later := fixedTime.Add(time.Minute)
		saga.Restart(later)

		assert.Equal(t, 2, saga.Attempt)
		assert.Equal(t, SagaRequested, saga.State)
		assert.Empty(t, saga.FeeTransactionID)
		assert.Equal(t, later, saga.UpdatedAt)
		assert.Equal(t, "saga-1:2", saga.RegistrationID())
	})
}

func TestSagaResumeEvent(t *testing.T) {
	fixedTime := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	saga := &JoinSaga{ID: "saga-1", AccountID: "acc-1", TournamentID: "t-1", Key: "k", FeeTransactionID: "fee-1"}

	event, err := NewSagaResumeEvent("evt-1", saga, fixedTime)
	require.NoError(t, err)
	assert.Equal(t, EventStatusPending, event.Status)

	payload, err := event.SagaResume()
	require.NoError(t, err)
	assert.Equal(t, "acc-1", payload.AccountID)
	assert.Equal(t, "k", payload.SagaKey)
	assert.Equal(t, "fee-1", payload.FeeTransactionID)

	event.Type = "OTHER"
	_, err = event.SagaResume()
	assert.Error(t, err)
}
