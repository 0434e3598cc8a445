package tournament

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/domain/port/external"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

// Failure reasons stored on a saga turned down by the registry
const (
	reasonTournamentFull     = "tournament_full"
	reasonAlreadyJoined      = "already_joined"
	reasonTournamentNotFound = "tournament_not_found"
)

var rejectionReasons = map[string]error{
	reasonTournamentFull:     errs.ErrTournamentFull,
	reasonAlreadyJoined:      errs.ErrAlreadyJoined,
	reasonTournamentNotFound: errs.ErrTournamentNotFound,
}

func rejectionReason(err error) string {
	for reason, sentinel := range rejectionReasons {
		if errors.Is(err, sentinel) {
			return reason
		}
	}
	return err.Error()
}

// run executes steps until the saga is terminal or a step cannot proceed
func (c *Coordinator) run(ctx context.Context, saga *entity.JoinSaga) (*entity.JoinResult, error) {
	var entry *entity.TournamentEntry

	for {
		var err error

		switch saga.State {
		case entity.SagaRequested:
			err = c.chargeFee(ctx, saga)
		case entity.SagaFeeCharged:
			entry, err = c.register(ctx, saga)
		case entity.SagaRefunding:
			err = c.refund(ctx, saga)
		case entity.SagaRegistered:
			c.Logger.Info("Tournament joined", sagaFields(saga))
			if entry == nil {
				entry = entryOf(saga)
			}
			return resultOf(saga, entry, false), nil
		case entity.SagaFailed:
			return nil, c.failure(saga)
		default:
			return nil, fmt.Errorf("%w: join saga %s in unknown state %q", errs.ErrInternal, saga.ID, saga.State)
		}

		if err != nil {
			return nil, err
		}
	}
}

// chargeFee debits the entry fee. The fee is read from the registry on the first run
// and saved before the debit. A later run of the same attempt replays the debit under
// the same key without asking the registry again, since the first debit may have
// committed; register and refund settle a tournament that filled up meanwhile.
func (c *Coordinator) chargeFee(ctx context.Context, saga *entity.JoinSaga) error {
	description := fmt.Sprintf("Entry fee for tournament %s", saga.TournamentID)

	if saga.EntryFee == 0 {
		t, err := c.Registry.GetTournament(ctx, saga.TournamentID)
		if err != nil {
			if errs.IsRetryable(err) {
				return err
			}
			return c.fail(ctx, saga, rejectionReason(err))
		}
		if t.IsFull() {
			return c.fail(ctx, saga, reasonTournamentFull)
		}

		if t.EntryFee > 0 {
			saga.EntryFee = t.EntryFee
			saga.UpdatedAt = c.TimeProvider.Now()
			if err := c.Sagas.Save(ctx, saga); err != nil {
				return err
			}
			description = fmt.Sprintf("Entry fee for tournament %s", t.Title)
		}
	}

	if saga.EntryFee > 0 {
		result, err := c.Transactions.Debit(ctx, usecase.DebitRequest{
			AccountID:      saga.AccountID,
			Amount:         saga.EntryFee,
			Category:       entity.CategoryEntryFee,
			Description:    description,
			ReferenceID:    saga.TournamentID,
			IdempotencyKey: c.feeKey(saga),
		})
		if err != nil {
			if errs.IsRetryable(err) {
				c.Logger.Warn("Entry fee outcome unknown, join deferred", mergeFields(sagaFields(saga), map[string]any{
					"entry_fee": saga.EntryFee,
					"error":     err.Error(),
				}))
				if qerr := c.saveWithResume(ctx, saga); qerr != nil {
					return errors.Join(err, qerr)
				}
				return err
			}
			c.Logger.Info("Entry fee declined", mergeFields(sagaFields(saga), errs.LogFields(err)))
			saga.FailureReason = err.Error()
			if terr := saga.TransitionTo(entity.SagaFailed, c.TimeProvider.Now()); terr != nil {
				return terr
			}
			if serr := c.Sagas.Save(ctx, saga); serr != nil {
				return serr
			}
			return err
		}
		saga.FeeTransactionID = result.Transaction.ID
	}

	if err := saga.TransitionTo(entity.SagaFeeCharged, c.TimeProvider.Now()); err != nil {
		return err
	}
	if err := c.Sagas.Save(ctx, saga); err != nil {
		return err
	}

	c.Logger.Info("Entry fee charged", mergeFields(sagaFields(saga), map[string]any{
		"transaction_id": saga.FeeTransactionID,
		"entry_fee":      saga.EntryFee,
	}))
	return nil
}

// register asks the registry for a slot. A rejection moves the saga to Refunding; any
// other failure leaves it in FeeCharged with a resume event queued.
func (c *Coordinator) register(ctx context.Context, saga *entity.JoinSaga) (*entity.TournamentEntry, error) {
	entry, err := c.Registry.RegisterParticipant(ctx, external.Registration{
		TournamentID:   saga.TournamentID,
		AccountID:      saga.AccountID,
		TeamID:         saga.TeamID,
		RegistrationID: saga.RegistrationID(),
	})
	if err == nil {
		if terr := saga.TransitionTo(entity.SagaRegistered, c.TimeProvider.Now()); terr != nil {
			return nil, terr
		}
		return entry, c.Sagas.Save(ctx, saga)
	}

	if errs.IsRegistrationRejection(err) {
		c.Logger.Info("Registration rejected", mergeFields(sagaFields(saga), map[string]any{
			"error": err.Error(),
		}))
		saga.FailureReason = rejectionReason(err)
		if terr := saga.TransitionTo(entity.SagaRefunding, c.TimeProvider.Now()); terr != nil {
			return nil, terr
		}
		return nil, c.Sagas.Save(ctx, saga)
	}

	c.Logger.Warn("Registry unavailable, join deferred", mergeFields(sagaFields(saga), map[string]any{
		"transaction_id": saga.FeeTransactionID,
		"error":          err.Error(),
	}))
	if qerr := c.saveWithResume(ctx, saga); qerr != nil {
		return nil, errors.Join(err, qerr)
	}
	if errs.KindOf(err) == errs.KindUnavailable {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", errs.ErrRegistryUnavailable, err)
}

// refund credits the entry fee back. A refund that cannot be made is never dropped: the
// saga stays in Refunding and a resume event is queued with it.
func (c *Coordinator) refund(ctx context.Context, saga *entity.JoinSaga) error {
	if saga.FeeTransactionID != "" {
		result, err := c.Transactions.Credit(ctx, usecase.CreditRequest{
			AccountID:      saga.AccountID,
			Amount:         saga.EntryFee,
			Category:       entity.CategoryRefund,
			Description:    fmt.Sprintf("Refund of entry fee for tournament %s", saga.TournamentID),
			ReferenceID:    saga.TournamentID,
			IdempotencyKey: c.IDs.DeriveKey("refund", saga.FeeTransactionID),
		})
		if err != nil {
			compErr := &errs.CompensationError{
				SagaID:           saga.ID,
				AccountID:        saga.AccountID,
				TournamentID:     saga.TournamentID,
				FeeTransactionID: saga.FeeTransactionID,
				Err:              err,
			}
			c.Logger.Error("Entry fee refund failed", compErr.LogFields())
			if qerr := c.saveWithResume(ctx, saga); qerr != nil {
				c.Logger.Error("Failed to queue refund retry", mergeFields(compErr.LogFields(), map[string]any{
					"queue_error": qerr.Error(),
				}))
			}
			return compErr
		}
		saga.RefundTransactionID = result.Transaction.ID
	}

	if err := saga.TransitionTo(entity.SagaFailed, c.TimeProvider.Now()); err != nil {
		return err
	}
	if err := c.Sagas.Save(ctx, saga); err != nil {
		return err
	}

	c.Logger.Info("Entry fee refunded", mergeFields(sagaFields(saga), map[string]any{
		"transaction_id":        saga.FeeTransactionID,
		"refund_transaction_id": saga.RefundTransactionID,
	}))
	return nil
}

// fail ends an attempt before anything was charged
func (c *Coordinator) fail(ctx context.Context, saga *entity.JoinSaga, reason string) error {
	saga.FailureReason = reason
	if err := saga.TransitionTo(entity.SagaFailed, c.TimeProvider.Now()); err != nil {
		return err
	}
	if err := c.Sagas.Save(ctx, saga); err != nil {
		return err
	}
	return c.failure(saga)
}

// failure is the error reported for a saga that ended in Failed
func (c *Coordinator) failure(saga *entity.JoinSaga) error {
	if sentinel, ok := rejectionReasons[saga.FailureReason]; ok {
		return &errs.RegistrationError{
			TournamentID: saga.TournamentID,
			AccountID:    saga.AccountID,
			Err:          sentinel,
		}
	}
	return fmt.Errorf("join tournament %s: %s", saga.TournamentID, saga.FailureReason)
}

// saveWithResume stores the saga and an outbox event asking for it to be resumed in one
// unit of work. It runs even when the caller has given up, since the step it records may
// already have moved money.
func (c *Coordinator) saveWithResume(ctx context.Context, saga *entity.JoinSaga) error {
	txCtx, err := c.UnitOfWork.Begin(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}

	event, err := entity.NewSagaResumeEvent(c.IDs.NewID(), saga, c.TimeProvider.Now())
	if err == nil {
		err = c.UnitOfWork.GetJoinSagaRepository(txCtx).Save(txCtx, saga)
	}
	if err == nil {
		err = c.UnitOfWork.GetOutboxRepository(txCtx).Save(txCtx, event)
	}
	if err != nil {
		if rbErr := c.UnitOfWork.Rollback(txCtx); rbErr != nil {
			c.Logger.Error("Failed to roll back saga update", map[string]any{
				"saga_id": saga.ID,
				"error":   rbErr.Error(),
			})
		}
		return err
	}

	if err := c.UnitOfWork.Commit(txCtx); err != nil {
		return err
	}

	c.Logger.Info("Saga resume queued", map[string]any{
		"saga_id":  saga.ID,
		"event_id": event.ID,
		"state":    string(saga.State),
	})
	return nil
}

func (c *Coordinator) feeKey(saga *entity.JoinSaga) string {
	return c.IDs.DeriveKey("entry-fee", saga.AccountID, saga.TournamentID, saga.Key, strconv.Itoa(saga.Attempt))
}

func mergeFields(base map[string]any, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
