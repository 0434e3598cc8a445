package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/middleware"
)

// HeaderIdempotencyKey names the header clients send their retry key in
const HeaderIdempotencyKey = "Idempotency-Key"

// caller returns the authenticated account, aborting with 401 when there is none
func caller(c *gin.Context) (string, bool) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		middleware.Abort(c, errs.ErrUnauthorized)
	}
	return accountID, ok
}

// bindJSON aborts with 400 when the body does not decode or validate
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.Abort(c, fmt.Errorf("%w: %s", errs.ErrInvalidRequest, err.Error()))
		return false
	}
	return true
}

// idempotencyKey returns the required Idempotency-Key header
func idempotencyKey(c *gin.Context) (string, bool) {
	key := c.GetHeader(HeaderIdempotencyKey)
	if key == "" {
		middleware.Abort(c, errs.ErrMissingIdempotencyKey)
		return "", false
	}
	return key, true
}
