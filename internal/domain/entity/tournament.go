package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/fireesports/ledger/internal/domain/error"
)

// TournamentStatus is the lifecycle of a tournament as the registry reports it
type TournamentStatus string

const (
	TournamentUpcoming         TournamentStatus = "upcoming"
	TournamentRegistrationOpen TournamentStatus = "registration_open"
	TournamentLive             TournamentStatus = "live"
	TournamentCompleted        TournamentStatus = "completed"
	TournamentCancelled        TournamentStatus = "cancelled"
)

// DefaultMaxParticipants is used when a tournament is created without a cap
const DefaultMaxParticipants = 100

// Tournament is the registry's view of a tournament, owned by the registry
type Tournament struct {
	ID                  string
	Title               string
	Game                string
	EntryFee            int64 // minor units
	PrizePool           int64 // minor units
	MaxParticipants     int
	CurrentParticipants int
	Status              TournamentStatus
	StartTime           time.Time
	CreatedBy           string
	CreatedAt           time.Time
}

// IsFull reports whether every slot is taken
func (t *Tournament) IsFull() bool {
	return t.CurrentParticipants >= t.MaxParticipants
}

// SlotsLeft is the number of free registrations
func (t *Tournament) SlotsLeft() int {
	if t.IsFull() {
		return 0
	}
	return t.MaxParticipants - t.CurrentParticipants
}

// Validate checks a tournament before it is created in the local registry
func (t *Tournament) Validate() error {
	if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: tournament id and title are required", errs.ErrInvalidRequest)
	}
	if t.EntryFee < 0 || t.PrizePool < 0 {
		return errs.ErrInvalidAmount
	}
	if t.MaxParticipants < 0 {
		return fmt.Errorf("%w: max participants cannot be negative", errs.ErrInvalidRequest)
	}
	return nil
}

// EntryStatus is the state of a participant inside a tournament
type EntryStatus string

const (
	EntryActive       EntryStatus = "active"
	EntryEliminated   EntryStatus = "eliminated"
	EntryWinner       EntryStatus = "winner"
	EntryDisqualified EntryStatus = "disqualified"
)

// TournamentEntry records that an account holds a slot in a tournament. At most one
// entry exists per (tournament, account).
type TournamentEntry struct {
	TournamentID   string
	AccountID      string
	TeamID         string // empty for solo entries
	Status         EntryStatus
	RegistrationID string // join attempt that created the entry
	JoinedAt       time.Time
}

// JoinedTournament pairs an entry with the tournament it belongs to
type JoinedTournament struct {
	Entry      TournamentEntry
	Tournament *Tournament // nil when the registry no longer knows the tournament
}
