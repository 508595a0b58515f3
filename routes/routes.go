package routes

import (
	"net/http"
	"time"

	"avix/config"
	"avix/handlers"
	"avix/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the full HTTP surface on the router.
func RegisterRoutes(router *gin.Engine, h *handlers.HandlerBundle, limiter middleware.RateLimiter) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.AppURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	cfg := config.AppConfig

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Dashboard calendar surface, authenticated per tenant.
	calendarGroup := router.Group("/api/calendar",
		middleware.RateLimitMiddleware(limiter, "calendar", cfg.RateLimitCalendar),
		middleware.AuthMiddleware())
	{
		calendarGroup.GET("", h.Calendar.GetEvents)
		calendarGroup.POST("/create", h.Calendar.CreateEvent)
		calendarGroup.PATCH("/:eventId", h.Calendar.UpdateEvent)
		calendarGroup.DELETE("/:eventId", h.Calendar.DeleteEvent)
	}

	// Google OAuth handshake. The callback must stay open: Google is the
	// caller and carries no bearer token.
	authGroup := router.Group("/api/auth/google",
		middleware.RateLimitMiddleware(limiter, "auth", cfg.RateLimitAuth))
	{
		authGroup.GET("/login", middleware.AuthMiddleware(), h.Auth.Login)
		authGroup.GET("/callback", h.Auth.Callback)
		authGroup.POST("/disconnect", middleware.AuthMiddleware(), h.Auth.Disconnect)
	}

	// Voice-AI vendor surface. Tenant resolution happens via the userId
	// query parameter baked into the vendor-side URLs.
	retellGroup := router.Group("/api/retell")
	{
		retellGroup.POST("/webhook",
			middleware.RateLimitMiddleware(limiter, "webhook", cfg.RateLimitWebhook),
			h.Webhook.Handle)

		tools := retellGroup.Group("/calendar",
			middleware.RateLimitMiddleware(limiter, "tools", cfg.RateLimitTools))
		{
			tools.POST("/check", h.Tools.CheckAvailability)
			tools.POST("/book", h.Tools.BookAppointment)
			tools.POST("/cancel", h.Tools.CancelAppointment)
		}
	}

	router.POST("/api/support/send",
		middleware.RateLimitMiddleware(limiter, "default", cfg.RateLimitDefault),
		middleware.AuthMiddleware(),
		h.Support.Send)
}
