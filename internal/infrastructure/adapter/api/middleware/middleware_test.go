package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	errs "github.com/fireesports/ledger/internal/domain/error"
	"github.com/fireesports/ledger/internal/infrastructure/adapter/auth"
	mockcore "github.com/fireesports/ledger/mocks/port/core"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens map[string]*auth.Claims

func (s stubTokens) ValidateToken(token string) (*auth.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errs.ErrUnauthorized
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	tokens := stubTokens{
		"good":  {AccountID: "acc-1", Role: auth.RolePlayer},
		"admin": {AccountID: "admin-1", Role: auth.RoleAdmin},
	}
	router := gin.New()
	router.GET("/me", JWTAuth(tokens), func(c *gin.Context) {
		id, _ := AccountID(c)
		c.String(http.StatusOK, id+":"+Role(c))
	})
	router.GET("/admin", JWTAuth(tokens), RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"valid bearer", "/me", "Bearer good", http.StatusOK, "acc-1:player"},
		{"scheme is case insensitive", "/me", "bearer good", http.StatusOK, "acc-1:player"},
		{"missing header", "/me", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/me", "Basic good", http.StatusUnauthorized, ""},
		{"unknown token", "/me", "Bearer bad", http.StatusUnauthorized, ""},
		{"player on admin route", "/admin", "Bearer good", http.StatusForbidden, ""},
		{"admin on admin route", "/admin", "Bearer admin", http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			w := serve(router, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	ids := mockcore.NewMockIDGenerator(t)
	ids.On("NewID").Return("generated").Once()

	router := gin.New()
	router.Use(RequestID(ids))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "generated", w.Body.String())
	assert.Equal(t, "generated", w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "from-client")
	w = serve(router, req)
	assert.Equal(t, "from-client", w.Body.String())
}

func TestErrorHandler(t *testing.T) {
	logger := mockcore.NewMockLogger(t)
	logger.EXPECT().Error("Panic recovered in API request", mock.MatchedBy(func(f map[string]any) bool {
		return f["error"] == "boom" && f["path"] == "/panic"
	})).Once()

	router := gin.New()
	router.Use(ErrorHandler(logger))
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":5000`)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestLogger(t *testing.T) {
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := mockcore.NewMockTimeProvider(t)
	clock.EXPECT().Now().Return(start).Once()
	clock.EXPECT().Now().Return(start.Add(42 * time.Millisecond)).Once()

	logger := mockcore.NewMockLogger(t)
	logger.EXPECT().Warn("Request rejected", mock.MatchedBy(func(f map[string]any) bool {
		return f["status"] == http.StatusConflict &&
			f["latency_ms"] == int64(42) &&
			f["route"] == "/things/:id" &&
			f["status_text"] == "Client Error"
	})).Once()

	router := gin.New()
	router.Use(Logger(logger, clock))
	router.GET("/things/:id", func(c *gin.Context) { Abort(c, errs.ErrAlreadyJoined) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/things/7", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}
