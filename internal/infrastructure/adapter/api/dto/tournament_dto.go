package dto

import (
	"time"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// JoinRequest is the optional body of a join. The idempotency key may be sent in the
// Idempotency-Key header; one is derived from account and tournament otherwise.
type JoinRequest struct {
	TeamID string `json:"teamId"`
}

// CreateTournamentRequest creates a tournament in the locally hosted registry
type CreateTournamentRequest struct {
	ID              string    `json:"id" binding:"max=64"`
	Title           string    `json:"title" binding:"required,max=200"`
	Game            string    `json:"game"`
	EntryFee        string    `json:"entryFee" binding:"required" example:"10.00"`
	PrizePool       string    `json:"prizePool" example:"500.00"`
	MaxParticipants int       `json:"maxParticipants" binding:"gte=0"`
	StartTime       time.Time `json:"startTime"`
}

// TournamentResponse represents a tournament as the registry reports it
type TournamentResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Game                string    `json:"game,omitempty"`
	EntryFee            string    `json:"entryFee"`
	PrizePool           string    `json:"prizePool"`
	MaxParticipants     int       `json:"maxParticipants"`
	CurrentParticipants int       `json:"currentParticipants"`
	Status              string    `json:"status"`
	StartTime           time.Time `json:"startTime,omitempty"`
}

// EntryResponse represents a participant's slot
type EntryResponse struct {
	TournamentID   string    `json:"tournamentId"`
	AccountID      string    `json:"accountId"`
	TeamID         string    `json:"teamId,omitempty"`
	Status         string    `json:"status"`
	RegistrationID string    `json:"registrationId"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// JoinResponse is returned by a successful join
type JoinResponse struct {
	SagaID           string        `json:"sagaId"`
	State            string        `json:"state"`
	Entry            EntryResponse `json:"entry"`
	FeeTransactionID string        `json:"feeTransactionId,omitempty"`
	EntryFee         string        `json:"entryFee"`
	Replayed         bool          `json:"replayed"`
}

// JoinedTournamentResponse pairs an entry with its tournament, which is absent when the
// registry no longer knows it
type JoinedTournamentResponse struct {
	Entry      EntryResponse       `json:"entry"`
	Tournament *TournamentResponse `json:"tournament,omitempty"`
}

// ToEntity converts the request after its amounts were parsed
func (r CreateTournamentRequest) ToEntity(entryFee, prizePool int64, createdBy string) *entity.Tournament {
	return &entity.Tournament{
		ID:              r.ID,
		Title:           r.Title,
		Game:            r.Game,
		EntryFee:        entryFee,
		PrizePool:       prizePool,
		MaxParticipants: r.MaxParticipants,
		Status:          entity.TournamentRegistrationOpen,
		StartTime:       r.StartTime,
		CreatedBy:       createdBy,
	}
}

// NewTournamentResponse formats a tournament for the API
func NewTournamentResponse(t *entity.Tournament) TournamentResponse {
	return TournamentResponse{
		ID:                  t.ID,
		Title:               t.Title,
		Game:                t.Game,
		EntryFee:            entity.FormatAmount(t.EntryFee),
		PrizePool:           entity.FormatAmount(t.PrizePool),
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		Status:              string(t.Status),
		StartTime:           t.StartTime,
	}
}

// NewEntryResponse formats an entry for the API
func NewEntryResponse(e *entity.TournamentEntry) EntryResponse {
	return EntryResponse{
		TournamentID:   e.TournamentID,
		AccountID:      e.AccountID,
		TeamID:         e.TeamID,
		Status:         string(e.Status),
		RegistrationID: e.RegistrationID,
		JoinedAt:       e.JoinedAt,
	}
}

// NewJoinResponse formats a join result
func NewJoinResponse(r *entity.JoinResult) JoinResponse {
	resp := JoinResponse{
		SagaID:           r.SagaID,
		State:            string(r.State),
		FeeTransactionID: r.FeeTransactionID,
		EntryFee:         entity.FormatAmount(r.EntryFee),
		Replayed:         r.Replayed,
	}
	if r.Entry != nil {
		resp.Entry = NewEntryResponse(r.Entry)
	}
	return resp
}

// NewJoinedTournamentsResponse formats the caller's entries
func NewJoinedTournamentsResponse(joined []*entity.JoinedTournament) []JoinedTournamentResponse {
	out := make([]JoinedTournamentResponse, 0, len(joined))
	for _, j := range joined {
		item := JoinedTournamentResponse{Entry: NewEntryResponse(&j.Entry)}
		if j.Tournament != nil {
			t := NewTournamentResponse(j.Tournament)
			item.Tournament = &t
		}
		out = append(out, item)
	}
	return out
}
