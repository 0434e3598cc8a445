package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler recovers from panics in handlers and answers with a generic 500
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered in API request", map[string]any{
			"error":      fmt.Sprint(recovered),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"client_ip":  c.ClientIP(),
			"request_id": RequestIDFrom(c),
		})

		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errs.ErrInternal))
	})
}

// Abort classifies err, attaches it to the context for the request log and writes the
// error body
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(errs.HTTPStatus(err), dto.NewErrorResponse(err))
}
