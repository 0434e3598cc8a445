package dto

import (
	"github.com/fireesports/ledger/internal/domain/entity"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
)

// BalanceResponse represents the API response for an account's balance
type BalanceResponse struct {
	AccountID string `json:"accountId"`
	Balance   string `json:"balance" example:"12.50"`
	Version   uint64 `json:"version"`
}

// NewBalanceResponse formats a balance view for the API
func NewBalanceResponse(v *usecase.BalanceView) BalanceResponse {
	return BalanceResponse{
		AccountID: v.AccountID,
		Balance:   entity.FormatAmount(v.Balance),
		Version:   v.Version,
	}
}
