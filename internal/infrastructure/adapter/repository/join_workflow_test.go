package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/domain/usecase/tournament"
	"github.com/fireesports/ledger/internal/domain/usecase/transaction"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/clock"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/idgen"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
)

// staleRegistry reports every tournament as empty, so the fee is charged before the
// registry turns the entry down
type staleRegistry struct {
	*TournamentRegistry
}

func (r staleRegistry) GetTournament(ctx context.Context, id string) (*entity.Tournament, error) {
	t, err := r.TournamentRegistry.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	t.CurrentParticipants = 0
	return t, nil
}

// lostDebitReply lets the first debit commit and then reports a timeout, as a caller
// whose deadline ran out while the ledger was still writing would see it
type lostDebitReply struct {
	usecase.TransactionUseCase
	calls int
}

func (l *lostDebitReply) Debit(ctx context.Context, req usecase.DebitRequest) (*usecase.TransactionResult, error) {
	l.calls++
	result, err := l.TransactionUseCase.Debit(ctx, req)
	if l.calls == 1 && err == nil {
		return nil, context.DeadlineExceeded
	}
	return result, err
}

type joinEnv struct {
	store       *LedgerStore
	registry    *TournamentRegistry
	sagas       *JoinSagaRepository
	outbox      *OutboxRepository
	coordinator *tournament.Coordinator
}

func newJoinEnv(t *testing.T, registryOverride func(*TournamentRegistry) external.TournamentRegistry) *joinEnv {
	t.Helper()
	m := database.NewTestManager(t)
	log := logger.NewNoopLogger()
	clk := clock.NewSystemClock()

	env := &joinEnv{
		store:    NewLedgerStore(m.DB(), clk, log, m.ErrorMapper(), m.MetricsCollector()),
		registry: NewTournamentRegistry(m.DB(), clk, log, m.ErrorMapper()),
		sagas:    NewJoinSagaRepository(m.DB(), log, m.ErrorMapper()),
		outbox:   NewOutboxRepository(m.DB(), clk, m.ErrorMapper()),
	}
	var registry external.TournamentRegistry = env.registry
	if registryOverride != nil {
		registry = registryOverride(env.registry)
	}

	txns := transaction.NewTransactionService(env.store, clk, log, transaction.Config{ConcurrencyLevel: 4, QueueSize: 16})
	t.Cleanup(txns.Shutdown)

	env.coordinator = tournament.NewCoordinator(tournament.Dependencies{
		Sagas:        env.sagas,
		Locks:        NewSagaLockRepository(m.DB(), clk, log, m.ErrorMapper()),
		UnitOfWork:   NewUnitOfWork(m.TxManager(), clk, log, m.ErrorMapper()),
		Registry:     registry,
		Admin:        env.registry,
		Transactions: txns,
		IDs:          idgen.NewUUIDGenerator(),
		TimeProvider: clk,
		Logger:       log,
	}, tournament.Config{})
	return env
}

func (e *joinEnv) balance(t *testing.T, accountID string) int64 {
	t.Helper()
	acc, err := e.store.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	return acc.Balance
}

func TestJoinWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("Fee is charged once and the entry is created", func(t *testing.T) {
		env := newJoinEnv(t, nil)
		openAccount(t, env.store, "acc-1", 1000)
		require.NoError(t, env.coordinator.CreateTournament(ctx, &entity.Tournament{ID: "t-1", Title: "Friday Cup", EntryFee: 300, MaxParticipants: 4}))

		req := usecase.JoinRequest{AccountID: "acc-1", TournamentID: "t-1", IdempotencyKey: "join-1"}
		result, err := env.coordinator.Join(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, entity.SagaRegistered, result.State)
		assert.False(t, result.Replayed)

		again, err := env.coordinator.Join(ctx, req)
		require.NoError(t, err)
		assert.True(t, again.Replayed)
		assert.Equal(t, result.FeeTransactionID, again.FeeTransactionID)

		assert.Equal(t, int64(700), env.balance(t, "acc-1"))
		entries, err := env.registry.ListEntries(ctx, "acc-1")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Rejected registration refunds the fee", func(t *testing.T) {
		env := newJoinEnv(t, func(r *TournamentRegistry) external.TournamentRegistry {
			return staleRegistry{r}
		})
		openAccount(t, env.store, "acc-1", 1000)
		openAccount(t, env.store, "acc-2", 1000)
		require.NoError(t, env.coordinator.CreateTournament(ctx, &entity.Tournament{ID: "t-1", Title: "Solo Cup", EntryFee: 500, MaxParticipants: 1}))

		_, err := env.coordinator.Join(ctx, usecase.JoinRequest{AccountID: "acc-2", TournamentID: "t-1"})
		require.NoError(t, err)

		_, err = env.coordinator.Join(ctx, usecase.JoinRequest{AccountID: "acc-1", TournamentID: "t-1", IdempotencyKey: "join-1"})

		assert.ErrorIs(t, err, errs.ErrTournamentFull)
		assert.Equal(t, int64(1000), env.balance(t, "acc-1"))
		entries, err := env.registry.ListEntries(ctx, "acc-1")
		require.NoError(t, err)
		assert.Empty(t, entries)

		saga, err := env.sagas.FindByKey(ctx, "acc-1", "join-1")
		require.NoError(t, err)
		assert.Equal(t, entity.SagaFailed, saga.State)
		assert.NotEmpty(t, saga.RefundTransactionID)

		sum, count, err := env.store.SumCompletedDeltas(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), sum)
		assert.Equal(t, int64(3), count, "opening credit, fee, refund")
	})

	t.Run("Insufficient funds charges nothing", func(t *testing.T) {
		env := newJoinEnv(t, nil)
		openAccount(t, env.store, "acc-1", 100)
		require.NoError(t, env.coordinator.CreateTournament(ctx, &entity.Tournament{ID: "t-1", Title: "High Roller", EntryFee: 500, MaxParticipants: 4}))

		_, err := env.coordinator.Join(ctx, usecase.JoinRequest{AccountID: "acc-1", TournamentID: "t-1"})

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, int64(100), env.balance(t, "acc-1"))
		got, err := env.registry.GetTournament(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, 0, got.CurrentParticipants)
	})

	t.Run("Timed out fee is refunded when the tournament fills before the retry", func(t *testing.T) {
		env := newJoinEnv(t, nil)
		lost := &lostDebitReply{TransactionUseCase: env.coordinator.Transactions}
		env.coordinator.Transactions = lost
		openAccount(t, env.store, "acc-1", 1000)
		openAccount(t, env.store, "acc-2", 1000)
		require.NoError(t, env.coordinator.CreateTournament(ctx, &entity.Tournament{ID: "t-1", Title: "Solo Cup", EntryFee: 300, MaxParticipants: 1}))

		req := usecase.JoinRequest{AccountID: "acc-1", TournamentID: "t-1", IdempotencyKey: "join-1"}
		_, err := env.coordinator.Join(ctx, req)
		require.Error(t, err)
		assert.True(t, errs.IsRetryable(err))
		assert.Equal(t, int64(700), env.balance(t, "acc-1"))

		saga, err := env.sagas.FindByKey(ctx, "acc-1", "join-1")
		require.NoError(t, err)
		assert.Equal(t, entity.SagaRequested, saga.State)
		assert.Equal(t, int64(300), saga.EntryFee)
		events, err := env.outbox.GetPendingEvents(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, entity.EventTypeJoinSagaResume, events[0].Type)

		_, err = env.coordinator.Join(ctx, usecase.JoinRequest{AccountID: "acc-2", TournamentID: "t-1"})
		require.NoError(t, err)

		_, err = env.coordinator.Join(ctx, req)

		assert.ErrorIs(t, err, errs.ErrTournamentFull)
		assert.Equal(t, int64(1000), env.balance(t, "acc-1"))
		entries, err := env.registry.ListEntries(ctx, "acc-1")
		require.NoError(t, err)
		assert.Empty(t, entries)

		saga, err = env.sagas.FindByKey(ctx, "acc-1", "join-1")
		require.NoError(t, err)
		assert.Equal(t, entity.SagaFailed, saga.State)
		assert.NotEmpty(t, saga.FeeTransactionID)
		assert.NotEmpty(t, saga.RefundTransactionID)
	})

	t.Run("Queued resume settles a timed out fee without the caller", func(t *testing.T) {
		env := newJoinEnv(t, nil)
		env.coordinator.Transactions = &lostDebitReply{TransactionUseCase: env.coordinator.Transactions}
		openAccount(t, env.store, "acc-1", 1000)
		require.NoError(t, env.coordinator.CreateTournament(ctx, &entity.Tournament{ID: "t-1", Title: "Friday Cup", EntryFee: 300, MaxParticipants: 4}))

		_, err := env.coordinator.Join(ctx, usecase.JoinRequest{AccountID: "acc-1", TournamentID: "t-1", IdempotencyKey: "join-1"})
		require.Error(t, err)

		result, err := env.coordinator.Resume(ctx, "acc-1", "join-1")

		require.NoError(t, err)
		assert.Equal(t, entity.SagaRegistered, result.State)
		assert.Equal(t, int64(700), env.balance(t, "acc-1"))
		_, count, err := env.store.SumCompletedDeltas(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "opening credit and a single fee")
	})
}
