package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/auth"
	"resume-analyzer/internal/shared/server/respond"
)

const (
	ownerEmailKey = "ownerEmail"
	ownerNameKey  = "ownerName"
)

// Auth validates session tokens and stores the owner identity in context.
// Auth endpoints themselves are exempt; everything else requires a session.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/auth/") || path == "/api/v1/health" || path == "/api/v1/metrics" {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(ownerEmailKey, claims.Sub)
		if claims.Name != "" {
			c.Set(ownerNameKey, claims.Name)
		}
		c.Next()
	}
}

// OwnerFromContext fetches the owner identity set by the auth middleware.
func OwnerFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(ownerEmailKey)
	if owner, ok := val.(string); ok {
		return owner
	}
	return ""
}
