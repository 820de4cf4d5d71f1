package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	// BackendPath is the executable of the native backend process.
	BackendPath string
	// GaleHome is the directory where the client keeps local state.
	GaleHome string

	// ThunderstoreURL is the base URL of the Thunderstore API.
	ThunderstoreURL string

	// ToastCapacity bounds how many toasts are kept at once.
	ToastCapacity int
	// ErrorToastDuration is how long error toasts stay visible.
	ErrorToastDuration time.Duration
	// InfoToastDuration is how long info toasts stay visible.
	InfoToastDuration time.Duration

	// Debug enables verbose logging.
	Debug bool
	// LogLevel is the raw log level string ("trace".."error").
	LogLevel string
}

// Load loads configuration from environment and defaults.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	galeHome := os.Getenv("GALE_HOME_DIR")
	if galeHome == "" {
		galeHome = filepath.Join(homeDir, ".gale")
	}
	if err := os.MkdirAll(galeHome, 0700); err != nil {
		return nil, fmt.Errorf("failed to create gale home: %w", err)
	}

	backendPath := os.Getenv("GALE_BACKEND")
	if backendPath == "" {
		backendPath = "gale-backend"
	}

	thunderstoreURL := os.Getenv("GALE_THUNDERSTORE_URL")
	if thunderstoreURL == "" {
		thunderstoreURL = "https://thunderstore.io"
	}

	debug := os.Getenv("GALE_DEBUG") == "true" || os.Getenv("GALE_DEBUG") == "1"

	cfg := &Config{
		BackendPath:        backendPath,
		GaleHome:           galeHome,
		ThunderstoreURL:    thunderstoreURL,
		ToastCapacity:      10,
		ErrorToastDuration: 8 * time.Second,
		InfoToastDuration:  3 * time.Second,
		Debug:              debug,
		LogLevel:           os.Getenv("GALE_LOG_LEVEL"),
	}

	if raw := os.Getenv("GALE_TOAST_CAPACITY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid GALE_TOAST_CAPACITY %q", raw)
		}
		cfg.ToastCapacity = n
	}

	if d, err := durationEnv("GALE_TOAST_ERROR_DURATION"); err != nil {
		return nil, err
	} else if d > 0 {
		cfg.ErrorToastDuration = d
	}
	if d, err := durationEnv("GALE_TOAST_INFO_DURATION"); err != nil {
		return nil, err
	} else if d > 0 {
		cfg.InfoToastDuration = d
	}

	return cfg, nil
}

// durationEnv reads a positive time.Duration from the environment.
// Returns zero when the variable is unset.
func durationEnv(key string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}
