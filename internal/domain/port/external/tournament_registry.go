package external

import (
	"context"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// Registration asks the registry for a slot. RegistrationID makes the call idempotent:
// registering again with the same id returns the entry created the first time.
type Registration struct {
	TournamentID   string
	AccountID      string
	TeamID         string
	RegistrationID string
}

// TournamentRegistry owns tournaments and their participant lists
type TournamentRegistry interface {
	// GetTournament returns fee and capacity information
	//
	// Possible errors:
	// - ErrTournamentNotFound
	// - ErrRegistryUnavailable
	GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error)

	// RegisterParticipant takes a slot, enforcing capacity and one entry per account
	//
	// Possible errors:
	// - ErrTournamentFull
	// - ErrAlreadyJoined: If the account holds an entry from a different registration
	// - ErrTournamentNotFound
	// - ErrRegistryUnavailable
	RegisterParticipant(ctx context.Context, reg Registration) (*entity.TournamentEntry, error)

	// ListEntries returns every entry held by the account, newest first
	ListEntries(ctx context.Context, accountID string) ([]*entity.TournamentEntry, error)
}

// TournamentAdmin is implemented by registries this service hosts itself
type TournamentAdmin interface {
	CreateTournament(ctx context.Context, tournament *entity.Tournament) error
}
