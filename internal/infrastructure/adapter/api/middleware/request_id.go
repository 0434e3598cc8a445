package middleware

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID keeps the caller's X-Request-ID or generates one, and echoes it back
func RequestID(ids coreport.IDGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = ids.NewID()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
