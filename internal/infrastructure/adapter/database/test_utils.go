package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fireesports/ledger/internal/infrastructure/adapter/clock"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/logger"
)

// NewTestManager connects to a fresh, migrated in-memory sqlite database that lives
// until the test ends. A single connection keeps the in-memory database alive and
// serializes writers the way row locks do on postgres.
func NewTestManager(t testing.TB) *Manager {
	t.Helper()

	config := &Config{
		Driver:        DriverSQLite,
		SQLitePath:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 1,
		AutoMigrate:   true,
	}

	manager := NewManager(config, logger.NewNoopLogger(), clock.NewSystemClock())
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})
	return manager
}

// NewTestDB is NewTestManager for callers that only need the handle
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	return NewTestManager(t).DB()
}
