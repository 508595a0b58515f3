package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetClientIP resolves the originating client address behind proxies.
// Header precedence: X-Forwarded-For (first hop), CF-Connecting-IP,
// X-Real-IP, then the socket address.
func GetClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if ip := c.GetHeader("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
