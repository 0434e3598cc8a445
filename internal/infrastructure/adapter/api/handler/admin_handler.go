package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fireesports/ledger/internal/domain/entity"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/dto"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/middleware"
)

// AdminHandler serves the admin-only endpoints
type AdminHandler struct {
	tournaments  usecase.TournamentUseCase
	transactions usecase.TransactionUseCase
	logger       coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(tournaments usecase.TournamentUseCase, transactions usecase.TransactionUseCase, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{
		tournaments:  tournaments,
		transactions: transactions,
		logger:       logger,
	}
}

// CreateTournament godoc
// @Summary      Create a tournament in the local registry
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.CreateTournamentRequest  true  "Tournament"
// @Success      201      {object}  dto.TournamentResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /admin/tournaments [post]
func (h *AdminHandler) CreateTournament(c *gin.Context) {
	adminID, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateTournamentRequest
	if !bindJSON(c, &req) {
		return
	}
	entryFee, err := entity.ParseAmount(req.EntryFee)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	var prizePool int64
	if req.PrizePool != "" {
		if prizePool, err = entity.ParseAmount(req.PrizePool); err != nil {
			middleware.Abort(c, err)
			return
		}
	}

	t := req.ToEntity(entryFee, prizePool, adminID)
	if err := h.tournaments.CreateTournament(c.Request.Context(), t); err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTournamentResponse(t))
}

// AwardPrize godoc
// @Summary      Pay prize money to an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountId        path      string            true  "Winning account"
// @Param        Idempotency-Key  header    string            true  "Client retry key"
// @Param        request          body      dto.PrizeRequest  true  "Tournament and amount"
// @Success      201              {object}  dto.MutationResponse
// @Success      200              {object}  dto.MutationResponse  "Replayed"
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      403              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Router       /admin/accounts/{accountId}/prizes [post]
func (h *AdminHandler) AwardPrize(c *gin.Context) {
	adminID, ok := caller(c)
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	var req dto.PrizeRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	accountID := c.Param("accountId")
	result, err := h.transactions.AwardPrize(c.Request.Context(), accountID, req.TournamentID, amount, key)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	if !result.Replayed {
		h.logger.Info("Prize awarded", map[string]any{
			"account_id":     accountID,
			"tournament_id":  req.TournamentID,
			"amount":         amount,
			"awarded_by":     adminID,
			"transaction_id": result.Transaction.ID,
		})
	}
	c.JSON(mutationStatus(result), dto.NewMutationResponse(result))
}
