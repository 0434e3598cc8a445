package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "tx"

// ErrNoTransaction is returned by Commit and Rollback on a context Begin did not produce
var ErrNoTransaction = errors.New("no transaction found in context")

// TxManager carries a gorm transaction through a context. Repositories built for a
// context returned by Begin run their statements inside that transaction.
type TxManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewTxManager creates a new TxManager
func NewTxManager(db *gorm.DB, logger coreport.Logger) *TxManager {
	return &TxManager{db: db, logger: logger}
}

// Begin starts a new database transaction
func (m *TxManager) Begin(ctx context.Context) (context.Context, error) {
	m.logger.Debug("Beginning database transaction", nil)

	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		m.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction stored in ctx
func (m *TxManager) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return ErrNoTransaction
	}

	if err := tx.Commit().Error; err != nil {
		m.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction stored in ctx. Rolling back a finished
// transaction is not an error.
func (m *TxManager) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return ErrNoTransaction
	}

	err := tx.Rollback().Error
	if err != nil && (errors.Is(err, gorm.ErrInvalidTransaction) ||
		strings.Contains(err.Error(), "already been committed or rolled back")) {
		m.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if err != nil {
		m.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// DB returns the transaction stored in ctx, or the plain handle bound to ctx
func (m *TxManager) DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return m.db.WithContext(ctx)
}
