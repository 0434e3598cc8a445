package main

import (
	"log"

	"go.uber.org/fx"

	"github.com/fireesports/ledger/internal/app"
	"github.com/fireesports/ledger/internal/infrastructure/config"
)

// @title                       Wallet Ledger API
// @version                     1.0
// @description                 Wallet balances, transaction history and tournament entry fees.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fx.New(
		app.Options(cfg),
		app.FxLogger(),
	).Run()
}
