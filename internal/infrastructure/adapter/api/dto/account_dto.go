package dto

import (
	"time"

	"github.com/fireesports/ledger/internal/domain/entity"
)

// AccountResponse is returned when an account is opened
type AccountResponse struct {
	ID        string    `json:"id"`
	Balance   string    `json:"balance"`
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Created   bool      `json:"created"`
}

// NewAccountResponse formats an account for the API
func NewAccountResponse(a *entity.Account, created bool) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Balance:   entity.FormatAmount(a.Balance),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		Created:   created,
	}
}
