package dto

import (
	errs "github.com/fireesports/ledger/internal/domain/error"
)

// ErrorResponse represents a standardized error response for the API. Clients keep their
// idempotency key and retry when Retryable is set.
type ErrorResponse struct {
	Code      int    `json:"code" example:"4020"`
	Kind      string `json:"kind" example:"insufficient_funds"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// NewErrorResponse classifies err. Internal errors never leak their message.
func NewErrorResponse(err error) ErrorResponse {
	kind := errs.KindOf(err)
	message := err.Error()
	if kind == errs.KindInternal {
		message = "Internal server error"
	}
	return ErrorResponse{
		Code:      errs.ErrorCode(err),
		Kind:      string(kind),
		Message:   message,
		Retryable: errs.IsRetryable(err),
	}
}
