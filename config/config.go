package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	AppURL   string `mapstructure:"APP_URL"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Postgres connection string.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis configuration (rate-limit counters and generic caching).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Google OAuth credentials for the calendar integration.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// Voice-AI vendor integration.
	RetellWebhookSecret string `mapstructure:"RETELL_WEBHOOK_SECRET"`
	RelayWebhookURL     string `mapstructure:"RELAY_WEBHOOK_URL"`

	// Support notifications (Telegram chat relay).
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `mapstructure:"TELEGRAM_CHAT_ID"`

	// Serve synthetic calendar data instead of calling Google. Threaded
	// through the service constructor, never a compile-time switch.
	UseMockData bool `mapstructure:"USE_MOCK_DATA"`

	// Per-scope rate limits, requests per minute.
	RateLimitAuth     int `mapstructure:"RATE_LIMIT_AUTH"`
	RateLimitWebhook  int `mapstructure:"RATE_LIMIT_WEBHOOK"`
	RateLimitTools    int `mapstructure:"RATE_LIMIT_TOOLS"`
	RateLimitCalendar int `mapstructure:"RATE_LIMIT_CALENDAR"`
	RateLimitDefault  int `mapstructure:"RATE_LIMIT_DEFAULT"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_URL", "http://localhost:3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/avix?sslmode=disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback")
	viper.SetDefault("USE_MOCK_DATA", false)
	viper.SetDefault("RATE_LIMIT_AUTH", 10)
	viper.SetDefault("RATE_LIMIT_WEBHOOK", 50)
	viper.SetDefault("RATE_LIMIT_TOOLS", 30)
	viper.SetDefault("RATE_LIMIT_CALENDAR", 60)
	viper.SetDefault("RATE_LIMIT_DEFAULT", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
