package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
	"github.com/fireesports/ledger/internal/infrastructure/config"
)

// application carries the loaded configuration into every Init constructor
type application struct {
	config *config.Config
}

// Options returns the fx wiring of the whole service
func Options(cfg *config.Config) fx.Option {
	a := &application{config: cfg}

	return fx.Options(
		fx.Provide(
			a.InitZapLogger,
			a.InitLogger,
			a.InitClock,
			a.InitIDGenerator,

			a.InitDatabase,
			a.InitLedgerStore,
			a.InitBalanceProjector,
			a.InitLedgerPort,
			a.InitSagaRepositories,
			a.InitRegistry,

			a.InitTransactionService,
			a.InitTransactionUseCase,
			a.InitTournamentUseCase,
			a.InitAccountUseCase,
			a.InitQueryUseCase,
			a.InitOutboxProcessor,
			a.InitAuditor,

			a.InitScheduler,
			a.InitJWTService,
			a.InitTokenValidator,
			a.InitHandlers,
			a.InitHTTPServer,
		),
		fx.Invoke(
			a.SeedAccounts,
			a.StartScheduler,
			a.StartHTTPServer,
		),
	)
}

// FxLogger routes fx's own lifecycle events through the service logger
func FxLogger() fx.Option {
	return fx.WithLogger(func(l *logger.ZapLogger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Zap()}
	})
}
