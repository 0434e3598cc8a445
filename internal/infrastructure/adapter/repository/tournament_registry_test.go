package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/clock"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
)

func newTestRegistry(t *testing.T) *TournamentRegistry {
	t.Helper()
	m := database.NewTestManager(t)
	return NewTournamentRegistry(m.DB(), clock.NewSystemClock(), logger.NewNoopLogger(), m.ErrorMapper())
}

func createTournament(t *testing.T, r *TournamentRegistry, id string, fee int64, capacity int) {
	t.Helper()
	require.NoError(t, r.CreateTournament(context.Background(), &entity.Tournament{
		ID:              id,
		Title:           "Cup " + id,
		Game:            "chess",
		EntryFee:        fee,
		MaxParticipants: capacity,
		Status:          entity.TournamentRegistrationOpen,
		CreatedAt:       clock.NewSystemClock().Now(),
	}))
}

func TestTournamentRegistry_CreateAndGet(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	createTournament(t, r, "t-1", 500, 8)

	got, err := r.GetTournament(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.EntryFee)
	assert.Equal(t, 8, got.SlotsLeft())

	err = r.CreateTournament(ctx, &entity.Tournament{ID: "t-1", Title: "Again", MaxParticipants: 2})
	assert.ErrorIs(t, err, errs.ErrTournamentExists)

	_, err = r.GetTournament(ctx, "t-404")
	assert.ErrorIs(t, err, errs.ErrTournamentNotFound)
}

func TestTournamentRegistry_RegisterParticipant(t *testing.T) {
	ctx := context.Background()
	reg := func(account, registrationID string) external.Registration {
		return external.Registration{TournamentID: "t-1", AccountID: account, RegistrationID: registrationID}
	}

	t.Run("Capacity is enforced", func(t *testing.T) {
		r := newTestRegistry(t)
		createTournament(t, r, "t-1", 0, 2)

		_, err := r.RegisterParticipant(ctx, reg("acc-1", "r-1"))
		require.NoError(t, err)
		_, err = r.RegisterParticipant(ctx, reg("acc-2", "r-2"))
		require.NoError(t, err)
		_, err = r.RegisterParticipant(ctx, reg("acc-3", "r-3"))

		assert.ErrorIs(t, err, errs.ErrTournamentFull)
		got, err := r.GetTournament(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, 2, got.CurrentParticipants)
	})

	t.Run("Same registration id returns the existing entry", func(t *testing.T) {
		r := newTestRegistry(t)
		createTournament(t, r, "t-1", 0, 2)

		first, err := r.RegisterParticipant(ctx, reg("acc-1", "r-1"))
		require.NoError(t, err)
		again, err := r.RegisterParticipant(ctx, reg("acc-1", "r-1"))
		require.NoError(t, err)

		assert.Equal(t, first.RegistrationID, again.RegistrationID)
		got, err := r.GetTournament(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentParticipants)
	})

	t.Run("Another registration for the same account is rejected", func(t *testing.T) {
		r := newTestRegistry(t)
		createTournament(t, r, "t-1", 0, 2)

		_, err := r.RegisterParticipant(ctx, reg("acc-1", "r-1"))
		require.NoError(t, err)
		_, err = r.RegisterParticipant(ctx, reg("acc-1", "r-2"))

		assert.ErrorIs(t, err, errs.ErrAlreadyJoined)
	})

	t.Run("Unknown tournament", func(t *testing.T) {
		r := newTestRegistry(t)

		_, err := r.RegisterParticipant(ctx, reg("acc-1", "r-1"))

		assert.ErrorIs(t, err, errs.ErrTournamentNotFound)
	})

	t.Run("Concurrent registrations never exceed capacity", func(t *testing.T) {
		r := newTestRegistry(t)
		createTournament(t, r, "t-1", 0, 3)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				account := "acc-" + string(rune('a'+i))
				if _, err := r.RegisterParticipant(ctx, reg(account, "r-"+account)); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 3, accepted)
	})

	t.Run("Entries are listed per account", func(t *testing.T) {
		r := newTestRegistry(t)
		createTournament(t, r, "t-1", 0, 5)
		createTournament(t, r, "t-2", 0, 5)

		_, err := r.RegisterParticipant(ctx, reg("acc-1", "r-1"))
		require.NoError(t, err)
		_, err = r.RegisterParticipant(ctx, external.Registration{TournamentID: "t-2", AccountID: "acc-1", TeamID: "team-9", RegistrationID: "r-2"})
		require.NoError(t, err)

		entries, err := r.ListEntries(ctx, "acc-1")
		require.NoError(t, err)
		assert.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, entity.EntryActive, e.Status)
		}
	})
}
