package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names honored at startup.
const (
	EnvSettingsPath = "GITSALVAGE_CONFIG"
	EnvLogLevel     = "GITSALVAGE_LOG_LEVEL"
)

// LoadEnv loads environment variables from .env/.env.local files.
// It attempts each supported filename in order and stops at the first one
// present. Existing process environment variables are not overwritten.
func LoadEnv() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load env file", "path", envPath, "error", err)
			continue
		}
		return
	}
}

// LogLevelFromEnv resolves the slog level from GITSALVAGE_LOG_LEVEL.
// Unset or unrecognized values fall back to info.
func LogLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
