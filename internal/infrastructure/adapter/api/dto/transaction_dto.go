package dto

import (
	"time"

	"github.com/fireesports/ledger/internal/domain/entity"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

// FundsRequest is the body of a top-up or withdrawal. The idempotency key travels in the
// Idempotency-Key header.
type FundsRequest struct {
	Amount      string `json:"amount" binding:"required" example:"25.00"`
	Description string `json:"description" binding:"max=255"`
}

// PrizeRequest is the body of a prize payout
type PrizeRequest struct {
	TournamentID string `json:"tournamentId" binding:"required"`
	Amount       string `json:"amount" binding:"required" example:"100.00"`
}

// TransactionResponse represents one ledger record
type TransactionResponse struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"accountId"`
	Amount       string    `json:"amount" example:"-10.00"`
	Category     string    `json:"category" example:"entry-fee"`
	Status       string    `json:"status"`
	ReferenceID  string    `json:"referenceId,omitempty"`
	Description  string    `json:"description,omitempty"`
	BalanceAfter string    `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MutationResponse is returned by every balance mutation. Replayed is set when the
// idempotency key had already been applied.
type MutationResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Replayed    bool                `json:"replayed"`
}

// TransactionPageResponse is one page of history, newest first
type TransactionPageResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextCursor   string                `json:"nextCursor,omitempty"`
}

// NewTransactionResponse formats a ledger record for the API
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Amount:       t.FormattedAmount(),
		Category:     string(t.Category),
		Status:       string(t.Status),
		ReferenceID:  t.ReferenceID,
		Description:  t.Description,
		BalanceAfter: entity.FormatAmount(t.BalanceAfter),
		CreatedAt:    t.CreatedAt,
	}
}

// NewMutationResponse formats a mutation result
func NewMutationResponse(r *usecase.TransactionResult) MutationResponse {
	return MutationResponse{
		Transaction: NewTransactionResponse(r.Transaction),
		Replayed:    r.Replayed,
	}
}

// NewTransactionPageResponse formats a page of history
func NewTransactionPageResponse(p *usecase.TransactionPage) TransactionPageResponse {
	out := TransactionPageResponse{
		Transactions: make([]TransactionResponse, 0, len(p.Transactions)),
		NextCursor:   p.NextCursor,
	}
	for _, t := range p.Transactions {
		out.Transactions = append(out.Transactions, NewTransactionResponse(t))
	}
	return out
}
