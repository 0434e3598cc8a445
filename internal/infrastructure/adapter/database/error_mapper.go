package database

import (
	"errors"
	"fmt"
	"strings"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"gorm.io/gorm"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	ConstraintError   ErrorType = "constraint"
	UnknownError      ErrorType = "unknown"
)

// ErrorMapper classifies driver errors and maps them to domain errors.
// Classification is by message so it works the same for pgx and sqlite.
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// Classify returns the type of error
func (m *ErrorMapper) Classify(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case m.IsDuplicateKey(err):
		return DuplicateKeyError
	case m.IsTransient(err):
		return TransientError
	case m.IsConstraint(err):
		return ConstraintError
	default:
		return UnknownError
	}
}

// IsDuplicateKey reports a unique index violation
func (m *ErrorMapper) IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}

// IsTransient reports errors worth retrying: lock conflicts and dropped connections
func (m *ErrorMapper) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "serialization failure") ||
		strings.Contains(msg, "lock timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "too many connections") ||
		strings.Contains(msg, "server closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.HasSuffix(msg, "eof")
}

// IsConstraint reports check and foreign key violations
func (m *ErrorMapper) IsConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "check constraint") ||
		strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "violates")
}

// MapError maps a database error to a domain error. notFound is returned for
// gorm.ErrRecordNotFound. Domain errors and context errors pass through untouched.
func (m *ErrorMapper) MapError(err error, operation string, notFound error) error {
	if err == nil {
		return nil
	}

	if errs.KindOf(err) != errs.KindInternal || errors.Is(err, errs.ErrInternal) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case m.IsDuplicateKey(err):
		return fmt.Errorf("%s: %w", operation, errs.ErrDuplicateTransaction)
	case m.IsTransient(err):
		return fmt.Errorf("%s: %w: %v", operation, errs.ErrUnavailable, err)
	case strings.Contains(strings.ToLower(err.Error()), "timeout"):
		return fmt.Errorf("%s timed out: %w: %v", operation, errs.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %v", operation, errs.ErrInternal, err)
	}
}
