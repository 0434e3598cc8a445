package error

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the coarse classification every ledger error falls into
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindConflict          Kind = "conflict"
	KindUnavailable       Kind = "unavailable"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindInternal          Kind = "internal"
)

// Error codes for standardized API responses
const (
	// 400x - Invalid input
	CodeInvalidAmount         = 4001
	CodeInvalidAccountID      = 4002
	CodeMissingIdempotencyKey = 4003
	CodeInvalidCategory       = 4004
	CodeInvalidCursor         = 4005
	CodeInvalidRequest        = 4006

	CodeUnauthorized      = 4010
	CodeInsufficientFunds = 4020
	CodeForbidden         = 4030

	// 404x - Not found
	CodeAccountNotFound     = 4040
	CodeTournamentNotFound  = 4041
	CodeTransactionNotFound = 4042
	CodeSagaNotFound        = 4043

	// 409x - Conflict
	CodeIdempotencyConflict  = 4090
	CodeTournamentFull       = 4091
	CodeAlreadyJoined        = 4092
	CodeDuplicateTransaction = 4093
	CodeAccountExists        = 4094
	CodeSagaExists           = 4095
	CodeTournamentExists     = 4096

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeCompensationFailed = 5001
	CodeUnavailable        = 5030
	CodeRegistryDown       = 5031
	CodeSagaInProgress     = 5032
)

// Base error types
var (
	// ErrAccountNotFound is returned when the account does not exist in the ledger
	ErrAccountNotFound = errors.New("account not found")

	// ErrTournamentNotFound is returned when the registry does not know the tournament
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSagaNotFound is returned when no join attempt is stored for the key
	ErrSagaNotFound = errors.New("join saga not found")

	// ErrInvalidAmount is returned when the amount is zero, negative or malformed
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")

	// ErrAmountOverflow is returned when applying the amount would overflow int64
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInvalidAccountID is returned when the account id is empty or malformed
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrMissingIdempotencyKey is returned when a mutation has no usable idempotency key
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")

	ErrInvalidCategory = errors.New("invalid transaction category")
	ErrInvalidCursor   = errors.New("invalid pagination cursor")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInsufficientFunds is returned when a debit would take the balance below zero
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrIdempotencyConflict is returned when a key is reused with a different payload
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")

	// ErrTournamentFull is returned by the registry when no slot is left
	ErrTournamentFull = errors.New("tournament is full")

	// ErrAlreadyJoined is returned by the registry when the account already holds an entry
	ErrAlreadyJoined = errors.New("account already joined the tournament")

	// ErrDuplicateTransaction is returned by the store when the (account, key) pair already exists
	ErrDuplicateTransaction = errors.New("transaction with this idempotency key already exists")

	ErrAccountExists = errors.New("account already exists")

	// ErrTournamentExists is returned when creating a tournament whose id is taken
	ErrTournamentExists = errors.New("tournament already exists")

	// ErrSagaExists is returned when a join saga with the same (account, key) is already stored
	ErrSagaExists = errors.New("join saga already exists")

	// ErrSagaInProgress is returned when another worker holds the lease on the same join saga
	ErrSagaInProgress = fmt.Errorf("join already in progress: %w", ErrUnavailable)

	// ErrUnavailable is returned when a dependency cannot be reached right now
	ErrUnavailable = errors.New("service temporarily unavailable")

	// ErrRegistryUnavailable is returned when the tournament registry cannot be reached
	ErrRegistryUnavailable = fmt.Errorf("tournament registry: %w", ErrUnavailable)

	// ErrQueueClosed is returned when the transaction queue is shutting down
	ErrQueueClosed = fmt.Errorf("transaction queue closed: %w", ErrUnavailable)

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrInternal is returned for unexpected server-side errors
	ErrInternal = errors.New("internal server error")
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrTournamentNotFound),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrSagaNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAmountOverflow),
		errors.Is(err, ErrInvalidAccountID),
		errors.Is(err, ErrMissingIdempotencyKey),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidCursor),
		errors.Is(err, ErrInvalidRequest):
		return KindInvalidInput
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrIdempotencyConflict),
		errors.Is(err, ErrTournamentFull),
		errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrDuplicateTransaction),
		errors.Is(err, ErrAccountExists),
		errors.Is(err, ErrTournamentExists),
		errors.Is(err, ErrSagaExists):
		return KindConflict
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindUnavailable
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	var compErr *CompensationError
	if errors.As(err, &compErr) {
		return CodeCompensationFailed
	}

	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAmountOverflow):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidAccountID):
		return CodeInvalidAccountID
	case errors.Is(err, ErrMissingIdempotencyKey):
		return CodeMissingIdempotencyKey
	case errors.Is(err, ErrInvalidCategory):
		return CodeInvalidCategory
	case errors.Is(err, ErrInvalidCursor):
		return CodeInvalidCursor
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrTournamentNotFound):
		return CodeTournamentNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrSagaNotFound):
		return CodeSagaNotFound
	case errors.Is(err, ErrIdempotencyConflict):
		return CodeIdempotencyConflict
	case errors.Is(err, ErrTournamentFull):
		return CodeTournamentFull
	case errors.Is(err, ErrAlreadyJoined):
		return CodeAlreadyJoined
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrAccountExists):
		return CodeAccountExists
	case errors.Is(err, ErrSagaExists):
		return CodeSagaExists
	case errors.Is(err, ErrTournamentExists):
		return CodeTournamentExists
	case errors.Is(err, ErrRegistryUnavailable):
		return CodeRegistryDown
	case errors.Is(err, ErrSagaInProgress):
		return CodeSagaInProgress
	case KindOf(err) == KindUnavailable:
		return CodeUnavailable
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps an error onto the status code the API answers with
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindInsufficientFunds:
		return http.StatusPaymentRequired
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the same request may succeed if sent again with the same key
func IsRetryable(err error) bool {
	return KindOf(err) == KindUnavailable
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	AccountID string
	Amount    int64
	Balance   int64
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for account %s: required %d, available %d",
		e.AccountID, e.Amount, e.Balance)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"balance":    e.Balance,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(accountID string, amount, balance int64) error {
	return &InsufficientFundsError{AccountID: accountID, Amount: amount, Balance: balance}
}

// IdempotencyConflictError carries both sides of a key reuse with a different payload
type IdempotencyConflictError struct {
	AccountID        string
	IdempotencyKey   string
	TransactionID    string
	ExistingAmount   int64
	ExistingCategory string
	RequestAmount    int64
	RequestCategory  string
}

// Error implements the error interface
func (e *IdempotencyConflictError) Error() string {
	return fmt.Sprintf("idempotency key %q on account %s already used by transaction %s (%s %d), request was %s %d",
		e.IdempotencyKey, e.AccountID, e.TransactionID,
		e.ExistingCategory, e.ExistingAmount, e.RequestCategory, e.RequestAmount)
}

// Is checks if the target error is an ErrIdempotencyConflict
func (e *IdempotencyConflictError) Is(target error) bool {
	return target == ErrIdempotencyConflict
}

// LogFields returns a map of fields for structured logging
func (e *IdempotencyConflictError) LogFields() map[string]any {
	return map[string]any{
		"error_type":        "idempotency_conflict",
		"account_id":        e.AccountID,
		"idempotency_key":   e.IdempotencyKey,
		"transaction_id":    e.TransactionID,
		"existing_amount":   e.ExistingAmount,
		"existing_category": e.ExistingCategory,
		"request_amount":    e.RequestAmount,
		"request_category":  e.RequestCategory,
		"error_code":        CodeIdempotencyConflict,
	}
}

// RegistrationError is a rejection from the tournament registry after the fee was charged
type RegistrationError struct {
	TournamentID string
	AccountID    string
	Err          error
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration of account %s in tournament %s rejected: %v",
		e.AccountID, e.TournamentID, e.Err)
}

// Unwrap returns the underlying error
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// CompensationError means an entry fee was charged, registration failed and the refund
// could not be applied. The fee transaction id is what an operator reconciles against.
type CompensationError struct {
	SagaID           string
	AccountID        string
	TournamentID     string
	FeeTransactionID string
	Err              error
}

// Error implements the error interface
func (e *CompensationError) Error() string {
	return fmt.Sprintf("refund of entry fee %s for account %s in tournament %s failed: %v",
		e.FeeTransactionID, e.AccountID, e.TournamentID, e.Err)
}

// Unwrap exposes both the internal classification and the cause
func (e *CompensationError) Unwrap() []error {
	return []error{ErrInternal, e.Err}
}

// LogFields returns a map of fields for structured logging
func (e *CompensationError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":         "compensation_failed",
		"saga_id":            e.SagaID,
		"account_id":         e.AccountID,
		"tournament_id":      e.TournamentID,
		"fee_transaction_id": e.FeeTransactionID,
		"error_code":         CodeCompensationFailed,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsRegistrationRejection reports errors after which the entry fee must be refunded
func IsRegistrationRejection(err error) bool {
	return errors.Is(err, ErrTournamentFull) ||
		errors.Is(err, ErrAlreadyJoined) ||
		errors.Is(err, ErrTournamentNotFound)
}

// LogFields extracts structured fields from err if it carries any
func LogFields(err error) map[string]any {
	var lf interface{ LogFields() map[string]any }
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{"error": fmt.Sprint(err), "error_code": ErrorCode(err)}
}
