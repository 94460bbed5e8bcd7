package middleware

import (
	"net/http"

	"solace/models"
	"solace/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoles aborts with 403 unless the authenticated caller holds one of
// the listed roles. Must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role, ok := CallerRole(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			utils.JSONError(c, http.StatusForbidden, "Insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller's id set by AuthMiddleware.
func CallerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxCallerID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// CallerRole returns the authenticated caller's role set by AuthMiddleware.
func CallerRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(CtxCallerRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok && role.Valid()
}
