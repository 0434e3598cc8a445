package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/fx"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/handler"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/routes"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/auth"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/database"
)

func (a *application) InitJWTService(clk coreport.TimeProvider) *auth.JWTService {
	return auth.NewJWTService(auth.Options{
		Secret: a.config.Auth.JWTSecret,
		Issuer: a.config.Auth.Issuer,
		Expiry: a.config.Auth.Expiry,
	}, clk)
}

func (a *application) InitTokenValidator(s *auth.JWTService) middleware.TokenValidator {
	return s
}

type handlerDeps struct {
	fx.In

	Accounts     usecase.AccountUseCase
	Queries      usecase.QueryUseCase
	Transactions usecase.TransactionUseCase
	Tournaments  usecase.TournamentUseCase
	DB           *database.Manager
	Logger       coreport.Logger
}

func (a *application) InitHandlers(d handlerDeps) routes.Handlers {
	return routes.Handlers{
		Accounts:     handler.NewAccountHandler(d.Accounts, d.Queries, d.Logger),
		Transactions: handler.NewTransactionHandler(d.Transactions, d.Queries, d.Logger),
		Tournaments:  handler.NewTournamentHandler(d.Tournaments, d.Queries, d.Logger),
		Admin:        handler.NewAdminHandler(d.Tournaments, d.Transactions, d.Logger),
		Health:       handler.NewHealthHandler(d.DB, d.Logger),
	}
}

// InitHTTPServer builds the router and the server around it
func (a *application) InitHTTPServer(
	h routes.Handlers,
	tokens middleware.TokenValidator,
	log coreport.Logger,
	clk coreport.TimeProvider,
	ids coreport.IDGenerator,
) *http.Server {
	router := routes.NewRouter(h, tokens, log, clk, ids, a.config.IsProduction())
	srv := a.config.Server

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", srv.Host, srv.Port),
		Handler:           routes.WithCORS(router, a.config.CORS.AllowedOrigins),
		ReadTimeout:       srv.ReadTimeout,
		WriteTimeout:      srv.WriteTimeout,
		IdleTimeout:       srv.IdleTimeout,
		ReadHeaderTimeout: srv.ReadHeaderTimeout,
	}
}

// StartHTTPServer binds the listener on start and drains in-flight requests on stop
func (a *application) StartHTTPServer(lc fx.Lifecycle, server *http.Server, log coreport.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", server.Addr, err)
			}
			log.Info("Starting server", map[string]any{
				"addr": server.Addr,
				"env":  a.config.Environment,
			})

			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", map[string]any{"error": err.Error()})
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server", nil)
			ctx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		},
	})
}
