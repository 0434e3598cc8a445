package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/fireesports/ledger/internal/domain/port/usecase"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/dto"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/auth"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/scheduler"
	"github.com/fireesports/ledger/internal/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: config.Test,
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			Driver:        "sqlite",
			SQLitePath:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			MaxOpenConns:  1,
			MaxIdleConns:  1,
			QueryTimeout:  5 * time.Second,
			RetryAttempts: 1,
			AutoMigrate:   true,
			LogLevel:      "silent",
		},
		Logger:      config.LoggerConfig{Level: "error", Format: "json"},
		Transaction: config.TransactionConfig{ConcurrencyLevel: 4, QueueSize: 8},
		Cache:       config.CacheConfig{TTL: time.Second},
		Saga:        config.SagaConfig{LockTTL: 10 * time.Second, LockCleanupEvery: time.Hour},
		Registry:    config.RegistryConfig{Mode: "local"},
		Auth:        config.AuthConfig{JWTSecret: "test-secret", Issuer: "fireesports", Expiry: time.Hour},
		Outbox:      config.OutboxConfig{Interval: time.Hour, BatchSize: 10, MaxRetries: 3},
		Seed:        config.SeedConfig{Accounts: map[string]int64{"acc-1": 1000}},
	}
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Options(testConfig())))

	cfg := testConfig()
	cfg.Registry = config.RegistryConfig{Mode: "http", BaseURL: "http://registry.local"}
	require.NoError(t, fx.ValidateApp(Options(cfg)))
}

func TestApplication_StartsSeedsAndServes(t *testing.T) {
	var (
		queries usecase.QueryUseCase
		server  *http.Server
		tokens  *auth.JWTService
		sched   *scheduler.Scheduler
	)
	app := fxtest.New(t, Options(testConfig()), fx.Populate(&queries, &server, &tokens, &sched))
	app.RequireStart()
	defer app.RequireStop()

	view, err := queries.GetBalance(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), view.Balance)

	assert.ElementsMatch(t,
		[]string{scheduler.JobOutbox, scheduler.JobLockCleanup, scheduler.JobPoolStats},
		sched.JobNames())

	token, err := tokens.GenerateToken("acc-1", auth.RolePlayer)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/withdrawals", strings.NewReader(`{"amount":"2.50"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "w-1")
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/wallet/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var balance dto.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, "7.50", balance.Balance)
}
