package middleware

import (
	"net/http"
	"strings"

	"avix/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the tenant id on the
// context for downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or malformed Authorization header", "")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		tenantID, err := utils.ExtractTenantIDFromToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", "")
			c.Abort()
			return
		}

		c.Set("tenantID", tenantID)
		c.Next()
	}
}

// TenantID reads the authenticated tenant id placed by AuthMiddleware.
func TenantID(c *gin.Context) string {
	if v, ok := c.Get("tenantID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
