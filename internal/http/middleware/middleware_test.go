package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tiketbus/internal/domain"
	"tiketbus/internal/services"
	"tiketbus/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]services.Claims

func (s stubTokens) Parse(raw string) (services.Claims, error) {
	c, ok := s[raw]
	if !ok {
		return services.Claims{}, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	return c, nil
}

func serve(r *gin.Engine, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBurstThenBlock(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Now()
	assert.True(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.2", now), "clients are limited independently")
	assert.True(t, l.allow("10.0.0.1", now.Add(time.Second)))
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(5, 1)
	old := time.Now().Add(-time.Hour)
	for i := 0; i <= 1024; i++ {
		l.allow(strings.Repeat("k", i+1), old)
	}
	l.allow("fresh", time.Now())
	assert.Len(t, l.clients, 1)
}

func TestRateLimiterDisabled(t *testing.T) {
	l := NewRateLimiter(0, 0)
	assert.Nil(t, l)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", l.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r).Code)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var fromCtx string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		fromCtx = utils.RequestIDFrom(c.Request.Context())
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := serve(r, "X-Request-ID", "rid-1")
	assert.Equal(t, "rid-1", w.Body.String())
	assert.Equal(t, "rid-1", fromCtx)

	w = serve(r, "X-Request-ID", strings.Repeat("a", 200))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestAuthAndRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := stubTokens{
		"admin": {UserID: "a1", Role: domain.RoleAdmin},
		"user":  {UserID: "u1", Role: domain.RoleUser},
	}
	r := gin.New()
	r.Use(Auth(tokens, false))
	r.GET("/x", RequireRole(domain.RoleAdmin, true), func(c *gin.Context) {
		rc, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, rc.UserID)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Authorization", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Authorization", "Bearer nope").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "Authorization", "Bearer user").Code)

	w := serve(r, "Authorization", "bearer admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a1", w.Body.String())
}

func TestRequireRoleOpenWhenNotEnforced(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireRole(domain.RoleAdmin, false), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(r).Code)
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", Auth(stubTokens{}, true), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := serve(r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
}
