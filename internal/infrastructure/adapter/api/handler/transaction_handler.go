package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fireesports/ledger/internal/domain/entity"
	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/dto"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/middleware"
)

// TransactionHandler handles wallet mutations and history
type TransactionHandler struct {
	transactions usecase.TransactionUseCase
	queries      usecase.QueryUseCase
	logger       coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	transactions usecase.TransactionUseCase,
	queries usecase.QueryUseCase,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		queries:      queries,
		logger:       logger,
	}
}

// ListTransactions godoc
// @Summary      Caller's transaction history
// @Description  Newest first. Pass nextCursor from the previous page to continue.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        cursor  query     string  false  "Opaque cursor from the previous page"
// @Param        limit   query     int     false  "Page size, 1 to 100"
// @Success      200     {object}  dto.TransactionPageResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      401     {object}  dto.ErrorResponse
// @Router       /wallet/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	accountID, ok := caller(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.Abort(c, fmt.Errorf("%w: limit must be a positive integer", errs.ErrInvalidRequest))
			return
		}
		limit = n
	}

	page, err := h.queries.ListTransactions(c.Request.Context(), accountID, c.Query("cursor"), limit)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionPageResponse(page))
}

// AddFunds godoc
// @Summary      Top up the caller's wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string            true  "Client retry key"
// @Param        request          body      dto.FundsRequest  true  "Amount and description"
// @Success      201              {object}  dto.MutationResponse
// @Success      200              {object}  dto.MutationResponse  "Replayed"
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      409              {object}  dto.ErrorResponse
// @Router       /wallet/funds [post]
func (h *TransactionHandler) AddFunds(c *gin.Context) {
	h.mutate(c, h.transactions.AddFunds)
}

// Withdraw godoc
// @Summary      Withdraw from the caller's wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string            true  "Client retry key"
// @Param        request          body      dto.FundsRequest  true  "Amount and description"
// @Success      201              {object}  dto.MutationResponse
// @Success      200              {object}  dto.MutationResponse  "Replayed"
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      402              {object}  dto.ErrorResponse
// @Failure      409              {object}  dto.ErrorResponse
// @Router       /wallet/withdrawals [post]
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	h.mutate(c, h.transactions.Withdraw)
}

type fundsOperation func(ctx context.Context, accountID string, amount int64, description, idempotencyKey string) (*usecase.TransactionResult, error)

func (h *TransactionHandler) mutate(c *gin.Context, op fundsOperation) {
	accountID, ok := caller(c)
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	var req dto.FundsRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	result, err := op(c.Request.Context(), accountID, amount, req.Description, key)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(mutationStatus(result), dto.NewMutationResponse(result))
}

func mutationStatus(r *usecase.TransactionResult) int {
	if r.Replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}
