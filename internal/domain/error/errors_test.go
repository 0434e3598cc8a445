package error

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrInsufficientFunds.Error() != "insufficient funds" {
		t.Errorf("ErrInsufficientFunds has unexpected message: %s", ErrInsufficientFunds.Error())
	}
	if ErrAccountNotFound.Error() != "account not found" {
		t.Errorf("ErrAccountNotFound has unexpected message: %s", ErrAccountNotFound.Error())
	}
	if !errors.Is(ErrRegistryUnavailable, ErrUnavailable) {
		t.Errorf("ErrRegistryUnavailable should wrap ErrUnavailable")
	}
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"Nil", nil, ""},
		{"AccountNotFound", ErrAccountNotFound, KindNotFound},
		{"TournamentNotFound", fmt.Errorf("lookup: %w", ErrTournamentNotFound), KindNotFound},
		{"InvalidAmount", ErrInvalidAmount, KindInvalidInput},
		{"MissingKey", ErrMissingIdempotencyKey, KindInvalidInput},
		{"InsufficientFunds", NewInsufficientFundsError("acc-1", 40, 10), KindInsufficientFunds},
		{"IdempotencyConflict", &IdempotencyConflictError{AccountID: "acc-1"}, KindConflict},
		{"TournamentFull", ErrTournamentFull, KindConflict},
		{"AlreadyJoined", ErrAlreadyJoined, KindConflict},
		{"RegistryDown", ErrRegistryUnavailable, KindUnavailable},
		{"QueueClosed", ErrQueueClosed, KindUnavailable},
		{"DeadlineExceeded", context.DeadlineExceeded, KindUnavailable},
		{"Compensation", &CompensationError{FeeTransactionID: "tx-1", Err: ErrUnavailable}, KindInternal},
		{"Unknown", errors.New("boom"), KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.expected {
				t.Errorf("KindOf(%v) = %q, want %q", tc.err, got, tc.expected)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InvalidAmount", ErrInvalidAmount, 4001},
		{"InvalidAccountID", ErrInvalidAccountID, 4002},
		{"MissingKey", ErrMissingIdempotencyKey, 4003},
		{"InsufficientFunds", ErrInsufficientFunds, 4020},
		{"AccountNotFound", ErrAccountNotFound, 4040},
		{"IdempotencyConflict", ErrIdempotencyConflict, 4090},
		{"TournamentFull", ErrTournamentFull, 4091},
		{"AlreadyJoined", ErrAlreadyJoined, 4092},
		{"RegistryDown", ErrRegistryUnavailable, 5031},
		{"Unavailable", ErrUnavailable, 5030},
		{"Compensation", &CompensationError{Err: errors.New("db down")}, 5001},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrInvalidAccountID), 4002},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		ErrAccountNotFound:     http.StatusNotFound,
		ErrInvalidCursor:       http.StatusBadRequest,
		ErrInsufficientFunds:   http.StatusPaymentRequired,
		ErrAlreadyJoined:       http.StatusConflict,
		ErrRegistryUnavailable: http.StatusServiceUnavailable,
		ErrUnauthorized:        http.StatusUnauthorized,
		ErrForbidden:           http.StatusForbidden,
		errors.New("x"):        http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := HTTPStatus(err); got != want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError("acc-7", 4000, 1000)

	expected := "insufficient funds for account acc-7: required 4000, available 1000"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !IsInsufficientFundsError(fmt.Errorf("debit: %w", err)) {
		t.Errorf("wrapped InsufficientFundsError should match ErrInsufficientFunds")
	}

	fields := LogFields(err)
	if fields["account_id"] != "acc-7" || fields["error_code"] != CodeInsufficientFunds {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestCompensationError(t *testing.T) {
	cause := fmt.Errorf("append refund: %w", ErrUnavailable)
	err := &CompensationError{
		SagaID:           "saga-1",
		AccountID:        "acc-1",
		TournamentID:     "t-1",
		FeeTransactionID: "fee-tx",
		Err:              cause,
	}

	if !errors.Is(err, ErrInternal) {
		t.Errorf("CompensationError should classify as internal")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("CompensationError should expose its cause")
	}
	if IsRetryable(err) {
		t.Errorf("CompensationError must not be reported as retryable")
	}

	var target *CompensationError
	if !errors.As(fmt.Errorf("join: %w", err), &target) || target.FeeTransactionID != "fee-tx" {
		t.Errorf("errors.As should recover the fee transaction id")
	}
	if LogFields(err)["fee_transaction_id"] != "fee-tx" {
		t.Errorf("log fields should carry the fee transaction id")
	}
}

func TestIsRegistrationRejection(t *testing.T) {
	if !IsRegistrationRejection(&RegistrationError{Err: ErrTournamentFull}) {
		t.Errorf("full tournament should be a rejection")
	}
	if !IsRegistrationRejection(ErrAlreadyJoined) {
		t.Errorf("already joined should be a rejection")
	}
	if IsRegistrationRejection(ErrRegistryUnavailable) {
		t.Errorf("an unreachable registry is not a rejection")
	}
}

func TestLogFieldsFallback(t *testing.T) {
	fields := LogFields(ErrAccountNotFound)
	if fields["error"] != "account not found" || fields["error_code"] != CodeAccountNotFound {
		t.Errorf("unexpected fallback fields: %v", fields)
	}
}
