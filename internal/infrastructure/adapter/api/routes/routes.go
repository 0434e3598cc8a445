package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fireesports/ledger/docs"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/handler"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/auth"
)

// Handlers groups every handler the router serves
type Handlers struct {
	Accounts     *handler.AccountHandler
	Transactions *handler.TransactionHandler
	Tournaments  *handler.TournamentHandler
	Admin        *handler.AdminHandler
	Health       *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, tokens middleware.TokenValidator) {
	router.GET("/health", h.Health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1", middleware.JWTAuth(tokens))
	{
		v1.POST("/accounts", h.Accounts.CreateAccount)

		wallet := v1.Group("/wallet")
		wallet.GET("/balance", h.Accounts.GetBalance)
		wallet.GET("/transactions", h.Transactions.ListTransactions)
		wallet.POST("/funds", h.Transactions.AddFunds)
		wallet.POST("/withdrawals", h.Transactions.Withdraw)

		tournaments := v1.Group("/tournaments")
		tournaments.GET("/joined", h.Tournaments.JoinedTournaments)
		tournaments.GET("/:tournamentId", h.Tournaments.GetTournament)
		tournaments.POST("/:tournamentId/join", h.Tournaments.Join)

		admin := v1.Group("/admin", middleware.RequireRole(auth.RoleAdmin))
		admin.POST("/tournaments", h.Admin.CreateTournament)
		admin.POST("/accounts/:accountId/prizes", h.Admin.AwardPrize)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, ids coreport.IDGenerator) {
	router.Use(middleware.RequestID(ids))
	router.Use(middleware.Logger(logger, timeProvider))
	router.Use(middleware.ErrorHandler(logger))
}

// WithCORS lets browsers on allowedOrigins call the API
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return next
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", handler.HeaderIdempotencyKey, middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}

// NewRouter builds the gin engine with middlewares and routes
func NewRouter(
	h Handlers,
	tokens middleware.TokenValidator,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	ids coreport.IDGenerator,
	production bool,
) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	SetupMiddlewares(router, logger, timeProvider, ids)
	SetupRoutes(router, h, tokens)
	return router
}
