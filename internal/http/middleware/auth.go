package middleware

import (
	"net/http"
	"strings"

	"tiketbus/internal/domain"
	"tiketbus/internal/services"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth_claims"

// TokenParser is satisfied by services.TokenService.
type TokenParser interface {
	Parse(raw string) (services.Claims, error)
}

// Auth reads a Bearer token when present. A malformed or expired token is
// always rejected; a missing token is rejected only when required is set.
func Auth(tokens TokenParser, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			if required {
				abort(c, http.StatusUnauthorized, "unauthorized", "token wajib disertakan")
				return
			}
			c.Next()
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "format Authorization harus Bearer <token>")
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		c.Set(claimsKey, domain.RequestContext{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireRole lets the request through only for the given role. With
// enforce off it is a no-op, matching the open admin API of earlier releases.
func RequireRole(role string, enforce bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enforce {
			c.Next()
			return
		}
		rc, ok := CurrentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "token wajib disertakan")
			return
		}
		if rc.Role != role {
			abort(c, http.StatusForbidden, "forbidden", "akses ditolak")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}
