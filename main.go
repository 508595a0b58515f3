package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"avix/config"
	"avix/database"
	callsRepo "avix/database/repository/calls"
	settingsRepo "avix/database/repository/settings"
	"avix/handlers"
	"avix/middleware"
	"avix/routes"
	"avix/services/calendar"
	"avix/services/notification"
	"avix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	db := database.GetDB()
	defer db.Close()

	utils.InitRedis()

	settings := settingsRepo.NewPostgresSettingsRepo()
	calls := callsRepo.NewPostgresCallRepo()

	tokens := &calendar.TokenManager{
		ClientID:     config.AppConfig.GoogleClientID,
		ClientSecret: config.AppConfig.GoogleClientSecret,
		RedirectURL:  config.AppConfig.GoogleRedirectURL,
	}

	calSvc := &calendar.DefaultCalendarService{
		Settings: settings,
		Calls:    calls,
		Tokens:   tokens,
		MockData: config.AppConfig.UseMockData,
	}

	notifier := notification.NewTelegramNotifier(
		config.AppConfig.TelegramBotToken, config.AppConfig.TelegramChatID)
	relay := notification.NewWebhookRelay(config.AppConfig.RelayWebhookURL)

	bundle := handlers.NewHandlerBundle(
		calSvc, tokens, settings, calls, relay, notifier,
		config.AppConfig.RetellWebhookSecret)

	var limiter middleware.RateLimiter
	if cache := utils.GetCacheClient(); cache != nil {
		limiter = middleware.NewRedisRateLimiter(cache)
	} else {
		logger.Warn("Redis unavailable, using in-memory rate limiting")
		limiter = middleware.NewMemoryRateLimiter()
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.ErrorHandler())

	routes.RegisterRoutes(router, bundle, limiter)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
