package entity

import (
	"fmt"
	"time"
)

// SagaState is a step of the tournament join workflow
type SagaState string

const (
	SagaRequested  SagaState = "requested"
	SagaFeeCharged SagaState = "fee_charged"
	SagaRegistered SagaState = "registered"
	SagaRefunding  SagaState = "refunding"
	SagaFailed     SagaState = "failed"
)

// IsTerminal reports whether no further step will run for the current attempt
func (s SagaState) IsTerminal() bool {
	return s == SagaRegistered || s == SagaFailed
}

var sagaTransitions = map[SagaState][]SagaState{
	SagaRequested:  {SagaFeeCharged, SagaFailed},
	SagaFeeCharged: {SagaRegistered, SagaRefunding},
	SagaRefunding:  {SagaFailed},
}

// CanTransition tells whether the workflow allows moving from s to next
func (s SagaState) CanTransition(next SagaState) bool {
	for _, allowed := range sagaTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// JoinSaga is the persisted progress of one account joining one tournament under one key.
// A failed attempt may be retried under the same key; Attempt tells them apart.
type JoinSaga struct {
	ID                  string
	AccountID           string
	TournamentID        string
	TeamID              string
	Key                 string
	Attempt             int
	State               SagaState
	EntryFee            int64
	FeeTransactionID    string
	RefundTransactionID string
	FailureReason       string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TransitionTo moves the saga forward, rejecting moves the workflow does not allow
func (s *JoinSaga) TransitionTo(next SagaState, now time.Time) error {
	if !s.State.CanTransition(next) {
		return fmt.Errorf("join saga %s: illegal transition %s -> %s", s.ID, s.State, next)
	}
	s.State = next
	s.UpdatedAt = now
	return nil
}

// Restart begins a new attempt after a failed one
func (s *JoinSaga) Restart(now time.Time) {
	s.Attempt++
	s.State = SagaRequested
	s.EntryFee = 0
	s.FeeTransactionID = ""
	s.RefundTransactionID = ""
	s.FailureReason = ""
	s.UpdatedAt = now
}

// RegistrationID identifies the current attempt towards the registry
func (s *JoinSaga) RegistrationID() string {
	return fmt.Sprintf("%s:%d", s.ID, s.Attempt)
}

// JoinResult is what the coordinator hands back to callers
type JoinResult struct {
	SagaID           string
	State            SagaState
	Entry            *TournamentEntry
	FeeTransactionID string
	EntryFee         int64
	Replayed         bool
}
