package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"avix/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secureRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/secure", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, TenantID(c))
	})
	return router
}

func TestAuthMiddlewareRoundTrip(t *testing.T) {
	token, err := utils.GenerateToken("tenant-1", "owner@example.com", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	secureRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tenant-1", w.Body.String())
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken("tenant-1", "owner@example.com", -time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	secureRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
