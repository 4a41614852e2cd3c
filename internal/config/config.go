package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the client.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	DataDir     string
	LogFile     string
	Debug       bool
}

// Load reads configuration from a .env file (if present) and the
// environment, with sane defaults for everything but the API URL.
func Load() (Config, error) {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:  strings.TrimSpace(os.Getenv("TASKDECK_API_URL")),
		HTTPTimeout: parseTimeout(strings.TrimSpace(os.Getenv("TASKDECK_HTTP_TIMEOUT"))),
		DataDir:     strings.TrimSpace(os.Getenv("TASKDECK_DATA_DIR")),
		LogFile:     strings.TrimSpace(os.Getenv("TASKDECK_LOG_FILE")),
		Debug:       os.Getenv("TASKDECK_DEBUG") == "1",
	}

	if cfg.APIBaseURL == "" {
		return cfg, fmt.Errorf("TASKDECK_API_URL is required")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return cfg, err
		}
		cfg.DataDir = dir
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "taskdeck.log")
	}

	return cfg, nil
}

// defaultDataDir returns the XDG data directory or the home fallback
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskdeck"), nil
}

func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
