package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"solace/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	CtxCallerID   = "callerID"
	CtxCallerRole = "callerRole"
)

// AuthMiddleware validates the bearer token, resolves the caller's id and
// role from its claims, and caches the token hash in Redis so repeated
// requests skip signature validation bookkeeping.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
			c.Abort()
			return
		}

		callerID, role, err := utils.ExtractCallerFromToken(tokenString)
		if err != nil || callerID == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
			c.Abort()
			return
		}

		// Refresh the cached token hash; a write failure only costs the
		// bookkeeping, not the request.
		authCache := utils.GetAuthCacheClient()
		cacheKey := utils.AuthCachePrefix + callerID
		_ = authCache.Set(context.Background(), cacheKey, utils.HashToken(tokenString), time.Hour).Err()

		c.Set(CtxCallerID, callerID)
		c.Set(CtxCallerRole, role)
		c.Next()
	}
}
