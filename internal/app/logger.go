package app

import (
	"context"

	"go.uber.org/fx"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/clock"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/idgen"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
)

// InitZapLogger builds the process logger and flushes it on shutdown
func (a *application) InitZapLogger(lc fx.Lifecycle) (*logger.ZapLogger, error) {
	l, err := logger.NewZapLogger(logger.Options{
		Level:  a.config.Logger.Level,
		Format: a.config.Logger.Format,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// Sync on a terminal returns an error worth ignoring.
			_ = l.Flush()
			return nil
		},
	})
	return l, nil
}

func (a *application) InitLogger(l *logger.ZapLogger) coreport.Logger {
	return l
}

func (a *application) InitClock() coreport.TimeProvider {
	return clock.NewSystemClock()
}

func (a *application) InitIDGenerator() coreport.IDGenerator {
	return idgen.NewUUIDGenerator()
}
