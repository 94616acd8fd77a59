package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// loadFromEnv overrides config from TADA_* environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TADA_TOAST_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TADA_TOAST_TTL: %w", err)
		}
		cfg.ToastTTL = Duration{d}
	}
	if v := os.Getenv("TADA_MOCK_LATENCY"); v != "" {
		cfg.MockLatency = boolFromString(v)
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("TADA_LISTEN"); v != "" {
		cfg.Serve.Listen = v
	}
	if v := os.Getenv("TADA_DATA_FILE"); v != "" {
		cfg.Serve.DataFile = v
	}
	if v := os.Getenv("TADA_CREDENTIALS_DIR"); v != "" {
		cfg.CredentialsDir = v
	}
	return nil
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
