package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/dto"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/middleware"
)

// AccountHandler opens wallets and reports balances
type AccountHandler struct {
	accounts usecase.AccountUseCase
	queries  usecase.QueryUseCase
	logger   coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accounts usecase.AccountUseCase, queries usecase.QueryUseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		queries:  queries,
		logger:   logger,
	}
}

// CreateAccount godoc
// @Summary      Open the caller's wallet
// @Description  Called once when the player profile is created. Repeating the call returns the existing account.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  dto.AccountResponse
// @Success      200  {object}  dto.AccountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	accountID, ok := caller(c)
	if !ok {
		return
	}

	account, created, err := h.accounts.CreateAccount(c.Request.Context(), accountID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.logger.Info("Account opened", map[string]any{"account_id": accountID})
	}
	c.JSON(status, dto.NewAccountResponse(account, created))
}

// GetBalance godoc
// @Summary      Caller's balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.BalanceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /wallet/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	accountID, ok := caller(c)
	if !ok {
		return
	}

	view, err := h.queries.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBalanceResponse(view))
}
