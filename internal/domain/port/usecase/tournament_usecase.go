package usecase

import (
	"context"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// JoinRequest asks to enter an account into a tournament
type JoinRequest struct {
	AccountID      string
	TournamentID   string
	TeamID         string // optional
	IdempotencyKey string // optional; derived from account and tournament when empty
}

// TournamentUseCase charges entry fees and registers participants
type TournamentUseCase interface {
	// Join runs or resumes the join workflow for the request's key.
	//
	// Possible errors: ErrInsufficientFunds, ErrTournamentFull, ErrAlreadyJoined,
	// ErrTournamentNotFound, ErrAccountNotFound, ErrUnavailable (retry with the same key),
	// CompensationError (fee charged and not yet refunded; the refund is retried in the background)
	Join(ctx context.Context, req JoinRequest) (*entity.JoinResult, error)

	// Resume drives a stored saga towards a terminal state
	Resume(ctx context.Context, accountID, sagaKey string) (*entity.JoinResult, error)

	// CreateTournament adds a tournament to the locally hosted registry
	CreateTournament(ctx context.Context, tournament *entity.Tournament) error
}
