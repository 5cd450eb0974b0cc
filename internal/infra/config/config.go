package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken          string
	OwnerTelegramID        int64 // The single user the bot answers to
	GeminiAPIKey           string
	GeminiModel            string
	DatabasePath           string
	LogLevel               string
	Environment            string
	ContextWindow          int    // Conversation exchanges kept for the model prompt
	CronSpecRecurringCheck string // Sweep for due recurring donations
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

	ownerIDStr := os.Getenv("OWNER_TELEGRAM_ID")
	if ownerIDStr == "" {
		return nil, fmt.Errorf("OWNER_TELEGRAM_ID is not set")
	}
	cfg.OwnerTelegramID, err = strconv.ParseInt(ownerIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_TELEGRAM_ID: %w", err)
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash" // Default model
	}

	cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "donations.db" // Default: next to the binary
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	windowStr := os.Getenv("CONTEXT_WINDOW")
	if windowStr == "" {
		cfg.ContextWindow = 5 // Default: last 5 exchanges
	} else {
		cfg.ContextWindow, err = strconv.Atoi(windowStr)
		if err != nil || cfg.ContextWindow <= 0 {
			return nil, fmt.Errorf("invalid CONTEXT_WINDOW: %q", windowStr)
		}
	}

	cfg.CronSpecRecurringCheck = os.Getenv("CRON_SPEC_RECURRING_CHECK")
	if cfg.CronSpecRecurringCheck == "" {
		cfg.CronSpecRecurringCheck = "0 9 * * *" // Default: 9 AM daily
	}

	return cfg, nil
}
