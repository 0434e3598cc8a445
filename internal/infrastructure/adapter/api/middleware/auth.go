package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/auth"
)

const (
	accountIDKey = "account_id"
	roleKey      = "role"
)

// TokenValidator resolves a bearer token into claims
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the caller's
// account id and role on the context
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			Abort(c, fmt.Errorf("%w: bearer token required", errs.ErrUnauthorized))
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			Abort(c, err)
			return
		}

		c.Set(accountIDKey, claims.Account())
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole lets through callers holding one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(roleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		Abort(c, fmt.Errorf("%w: role %q may not call this endpoint", errs.ErrForbidden, role))
	}
}

// AccountID returns the authenticated caller
func AccountID(c *gin.Context) (string, bool) {
	id := c.GetString(accountIDKey)
	return id, id != ""
}

// Role returns the authenticated caller's role
func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}
