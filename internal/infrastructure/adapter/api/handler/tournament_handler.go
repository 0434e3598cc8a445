package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/dto"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/middleware"
)

// TournamentHandler handles tournament entry
type TournamentHandler struct {
	tournaments usecase.TournamentUseCase
	queries     usecase.QueryUseCase
	logger      coreport.Logger
}

// NewTournamentHandler creates a new tournament handler instance
func NewTournamentHandler(tournaments usecase.TournamentUseCase, queries usecase.QueryUseCase, logger coreport.Logger) *TournamentHandler {
	return &TournamentHandler{
		tournaments: tournaments,
		queries:     queries,
		logger:      logger,
	}
}

// Join godoc
// @Summary      Join a tournament
// @Description  Charges the entry fee and registers the caller. A failed registration refunds the fee.
// @Description  Without an Idempotency-Key one is derived from the caller and the tournament.
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournamentId     path      string           true   "Tournament id"
// @Param        Idempotency-Key  header    string           false  "Client retry key"
// @Param        request          body      dto.JoinRequest  false  "Team to enter with"
// @Success      201              {object}  dto.JoinResponse
// @Success      200              {object}  dto.JoinResponse  "Replayed"
// @Failure      402              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Failure      409              {object}  dto.ErrorResponse
// @Failure      503              {object}  dto.ErrorResponse
// @Router       /tournaments/{tournamentId}/join [post]
func (h *TournamentHandler) Join(c *gin.Context) {
	accountID, ok := caller(c)
	if !ok {
		return
	}

	var req dto.JoinRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.tournaments.Join(c.Request.Context(), usecase.JoinRequest{
		AccountID:      accountID,
		TournamentID:   c.Param("tournamentId"),
		TeamID:         req.TeamID,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.NewJoinResponse(result))
}

// JoinedTournaments godoc
// @Summary      Tournaments the caller has entered
// @Tags         tournaments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.JoinedTournamentResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /tournaments/joined [get]
func (h *TournamentHandler) JoinedTournaments(c *gin.Context) {
	accountID, ok := caller(c)
	if !ok {
		return
	}

	joined, err := h.queries.JoinedTournaments(c.Request.Context(), accountID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJoinedTournamentsResponse(joined))
}

// GetTournament godoc
// @Summary      Tournament details
// @Tags         tournaments
// @Produce      json
// @Security     BearerAuth
// @Param        tournamentId  path      string  true  "Tournament id"
// @Success      200           {object}  dto.TournamentResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Router       /tournaments/{tournamentId} [get]
func (h *TournamentHandler) GetTournament(c *gin.Context) {
	t, err := h.queries.GetTournament(c.Request.Context(), c.Param("tournamentId"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTournamentResponse(t))
}
