package tournament

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/domain/port/persistence"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

// DefaultLockTTL bounds how long one worker may drive a saga before others can take over
const DefaultLockTTL = 30 * time.Second

// Config holds coordinator settings
type Config struct {
	LockTTL time.Duration
}

// Dependencies groups the collaborators of the coordinator
type Dependencies struct {
	Sagas        persistence.JoinSagaRepository
	Locks        persistence.SagaLockRepository
	UnitOfWork   persistence.UnitOfWork
	Registry     external.TournamentRegistry
	Admin        external.TournamentAdmin // nil when the registry is remote
	Transactions usecase.TransactionUseCase
	IDs          coreport.IDGenerator
	TimeProvider coreport.TimeProvider
	Logger       coreport.Logger
}

// Coordinator charges entry fees and registers participants, refunding the fee when
// the registry turns the entry down
type Coordinator struct {
	Dependencies
	lockTTL time.Duration
}

var _ usecase.TournamentUseCase = (*Coordinator)(nil)

// NewCoordinator creates a tournament-entry coordinator
func NewCoordinator(deps Dependencies, cfg Config) *Coordinator {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}
	return &Coordinator{Dependencies: deps, lockTTL: cfg.LockTTL}
}

// Join runs the join workflow for the request's key, or picks it up where a previous
// call under the same key stopped
func (c *Coordinator) Join(ctx context.Context, req usecase.JoinRequest) (*entity.JoinResult, error) {
	if err := entity.ValidateAccountID(req.AccountID); err != nil {
		return nil, err
	}
	if req.TournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", errs.ErrInvalidRequest)
	}

	key := req.IdempotencyKey
	if key == "" {
		key = c.IDs.DeriveKey("join", req.AccountID, req.TournamentID)
	} else if err := entity.ValidateIdempotencyKey(key); err != nil {
		return nil, err
	}

	release, err := c.lock(ctx, req.AccountID, key)
	if err != nil {
		return nil, err
	}
	defer release()

	saga, err := c.loadOrCreate(ctx, req, key)
	if err != nil {
		return nil, err
	}

	switch saga.State {
	case entity.SagaRegistered:
		c.Logger.Info("Join replayed", sagaFields(saga))
		return resultOf(saga, entryOf(saga), true), nil
	case entity.SagaFailed:
		saga.Restart(c.TimeProvider.Now())
		if err := c.Sagas.Save(ctx, saga); err != nil {
			return nil, err
		}
		c.Logger.Info("Join saga restarted", sagaFields(saga))
	}

	return c.run(ctx, saga)
}

// Resume drives a stored saga towards a terminal state. Reaching Failed after a refund
// is a successful resume.
func (c *Coordinator) Resume(ctx context.Context, accountID, sagaKey string) (*entity.JoinResult, error) {
	release, err := c.lock(ctx, accountID, sagaKey)
	if err != nil {
		return nil, err
	}
	defer release()

	saga, err := c.Sagas.FindByKey(ctx, accountID, sagaKey)
	if err != nil {
		return nil, err
	}

	if !saga.State.IsTerminal() {
		if _, err := c.run(ctx, saga); err != nil && !saga.State.IsTerminal() {
			return nil, err
		}
	}

	c.Logger.Info("Join saga resumed", sagaFields(saga))
	if saga.State == entity.SagaRegistered {
		return resultOf(saga, entryOf(saga), true), nil
	}
	return resultOf(saga, nil, false), nil
}

// CreateTournament adds a tournament to the locally hosted registry
func (c *Coordinator) CreateTournament(ctx context.Context, t *entity.Tournament) error {
	if c.Admin == nil {
		return fmt.Errorf("%w: tournaments are managed by the remote registry", errs.ErrForbidden)
	}
	if t.ID == "" {
		t.ID = c.IDs.NewID()
	}
	if t.MaxParticipants == 0 {
		t.MaxParticipants = entity.DefaultMaxParticipants
	}
	if t.Status == "" {
		t.Status = entity.TournamentRegistrationOpen
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = c.TimeProvider.Now()
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if err := c.Admin.CreateTournament(ctx, t); err != nil {
		c.Logger.Error("Failed to create tournament", map[string]any{
			"tournament_id": t.ID,
			"error":         err.Error(),
		})
		return err
	}

	c.Logger.Info("Tournament created", map[string]any{
		"tournament_id":    t.ID,
		"entry_fee":        t.EntryFee,
		"max_participants": t.MaxParticipants,
	})
	return nil
}

func (c *Coordinator) lock(ctx context.Context, accountID, sagaKey string) (func(), error) {
	lockKey := accountID + ":" + sagaKey
	owner := c.IDs.NewID()

	if err := c.Locks.AcquireLock(ctx, lockKey, owner, c.lockTTL); err != nil {
		return nil, err
	}

	return func() {
		// The caller's context may be done by now; the lease must still be dropped.
		if err := c.Locks.ReleaseLock(context.WithoutCancel(ctx), lockKey, owner); err != nil {
			c.Logger.Warn("Failed to release saga lock", map[string]any{
				"lock_key": lockKey,
				"error":    err.Error(),
			})
		}
	}, nil
}

func (c *Coordinator) loadOrCreate(ctx context.Context, req usecase.JoinRequest, key string) (*entity.JoinSaga, error) {
	saga, err := c.Sagas.FindByKey(ctx, req.AccountID, key)
	if err == nil {
		if saga.TournamentID != req.TournamentID {
			return nil, fmt.Errorf("%w: key %q was used to join tournament %s",
				errs.ErrIdempotencyConflict, key, saga.TournamentID)
		}
		return saga, nil
	}
	if !errors.Is(err, errs.ErrSagaNotFound) {
		return nil, err
	}

	now := c.TimeProvider.Now()
	saga = &entity.JoinSaga{
		ID:           c.IDs.NewID(),
		AccountID:    req.AccountID,
		TournamentID: req.TournamentID,
		TeamID:       req.TeamID,
		Key:          key,
		Attempt:      1,
		State:        entity.SagaRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.Sagas.Create(ctx, saga); err != nil {
		if errors.Is(err, errs.ErrSagaExists) {
			return c.Sagas.FindByKey(ctx, req.AccountID, key)
		}
		return nil, err
	}

	c.Logger.Info("Join saga created", sagaFields(saga))
	return saga, nil
}

func resultOf(saga *entity.JoinSaga, entry *entity.TournamentEntry, replayed bool) *entity.JoinResult {
	return &entity.JoinResult{
		SagaID:           saga.ID,
		State:            saga.State,
		Entry:            entry,
		FeeTransactionID: saga.FeeTransactionID,
		EntryFee:         saga.EntryFee,
		Replayed:         replayed,
	}
}

// entryOf rebuilds the entry a registered saga produced
func entryOf(saga *entity.JoinSaga) *entity.TournamentEntry {
	return &entity.TournamentEntry{
		TournamentID:   saga.TournamentID,
		AccountID:      saga.AccountID,
		TeamID:         saga.TeamID,
		Status:         entity.EntryActive,
		RegistrationID: saga.RegistrationID(),
		JoinedAt:       saga.UpdatedAt,
	}
}

func sagaFields(saga *entity.JoinSaga) map[string]any {
	return map[string]any{
		"saga_id":       saga.ID,
		"account_id":    saga.AccountID,
		"tournament_id": saga.TournamentID,
		"attempt":       saga.Attempt,
		"state":         string(saga.State),
	}
}
