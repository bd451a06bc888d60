package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken     string
	DatabaseURL       string
	AdminTelegramID   int64
	AlertChatID       int64 // chat that receives expiration alerts; defaults to the admin
	LogLevel          string
	Environment       string
	CronSpecCheck     string        // recurring expiration check schedule
	StartupCheckDelay time.Duration // wait before the startup check so wiring settles
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	alertChatStr := os.Getenv("ALERT_CHAT_ID")
	if alertChatStr == "" {
		cfg.AlertChatID = cfg.AdminTelegramID // Alerts go to the admin by default
	} else {
		cfg.AlertChatID, err = strconv.ParseInt(alertChatStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ALERT_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecCheck = os.Getenv("CRON_SPEC_EXPIRY_CHECK")
	if cfg.CronSpecCheck == "" {
		cfg.CronSpecCheck = "@every 24h" // Default: fixed 24-hour interval
	}

	delayStr := os.Getenv("STARTUP_CHECK_DELAY")
	if delayStr == "" {
		delayStr = "1500ms" // Default: short grace period after startup
	}
	cfg.StartupCheckDelay, err = time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTUP_CHECK_DELAY: %w", err)
	}

	return cfg, nil
}
