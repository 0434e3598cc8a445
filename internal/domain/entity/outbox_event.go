package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// OutboxEventType names the follow-up work an event asks for
type OutboxEventType string

// EventTypeJoinSagaResume asks the coordinator to drive a stuck join saga to a terminal state
const EventTypeJoinSagaResume OutboxEventType = "JOIN_SAGA_RESUME"

// OutboxEventStatus is the processing state of an outbox row
type OutboxEventStatus string

// Event statuses
const (
	EventStatusPending   OutboxEventStatus = "PENDING"
	EventStatusProcessed OutboxEventStatus = "PROCESSED"
	EventStatusFailed    OutboxEventStatus = "FAILED"
)

// OutboxEvent is work recorded in the same unit of work as the state that needs it
type OutboxEvent struct {
	ID          string
	Type        OutboxEventType
	Payload     []byte
	Status      OutboxEventStatus
	RetryCount  int
	LastError   string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SagaResumePayload identifies the saga an EventTypeJoinSagaResume event refers to
type SagaResumePayload struct {
	SagaID           string `json:"saga_id"`
	AccountID        string `json:"account_id"`
	TournamentID     string `json:"tournament_id"`
	SagaKey          string `json:"saga_key"`
	FeeTransactionID string `json:"fee_transaction_id,omitempty"`
}

// NewSagaResumeEvent builds a pending resume event for saga
func NewSagaResumeEvent(id string, saga *JoinSaga, now time.Time) (*OutboxEvent, error) {
	payload, err := json.Marshal(SagaResumePayload{
		SagaID:           saga.ID,
		AccountID:        saga.AccountID,
		TournamentID:     saga.TournamentID,
		SagaKey:          saga.Key,
		FeeTransactionID: saga.FeeTransactionID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode saga resume payload: %w", err)
	}

	return &OutboxEvent{
		ID:        id,
		Type:      EventTypeJoinSagaResume,
		Payload:   payload,
		Status:    EventStatusPending,
		CreatedAt: now,
	}, nil
}

// SagaResume decodes the payload of a resume event
func (e *OutboxEvent) SagaResume() (SagaResumePayload, error) {
	var p SagaResumePayload
	if e.Type != EventTypeJoinSagaResume {
		return p, fmt.Errorf("outbox event %s has type %s", e.ID, e.Type)
	}
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return p, fmt.Errorf("decode saga resume payload: %w", err)
	}
	if p.AccountID == "" || p.SagaKey == "" {
		return p, fmt.Errorf("outbox event %s: incomplete saga reference", e.ID)
	}
	return p, nil
}
