// Package config assembles the runtime configuration from the environment,
// loading a .env file first when one is present. Folder paths are always
// explicit CLI arguments; nothing here defaults to a real filesystem
// location.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the surface the commands consume.
type Config struct {
	APIKey        string
	Indicators    []string
	RetryAttempts int
	RetryBase     time.Duration
	CollisionMax  int
	Resize        bool
	Workers       int
	VisionModel   string
	NamingModel   string
	AuditDir      string
}

// ErrMissingAPIKey fails the batch fast, before any candidate is touched.
var ErrMissingAPIKey = errors.New("config: OPENAI_API_KEY is not set")

// Load reads .env (if present) and the environment. Only the rename pipeline
// needs the API key; offline commands pass requireKey=false.
func Load(requireKey bool) (Config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	cfg := Config{
		APIKey:        os.Getenv("OPENAI_API_KEY"),
		RetryAttempts: 3,
		RetryBase:     500 * time.Millisecond,
		CollisionMax:  1000,
		Workers:       4,
		VisionModel:   os.Getenv("HOLMES_VISION_MODEL"),
		NamingModel:   os.Getenv("HOLMES_NAMING_MODEL"),
		AuditDir:      os.Getenv("HOLMES_AUDIT_DIR"),
	}
	if cfg.AuditDir == "" {
		cfg.AuditDir = "."
	}

	if raw := os.Getenv("HOLMES_INDICATORS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if ind := strings.TrimSpace(strings.ToLower(part)); ind != "" {
				cfg.Indicators = append(cfg.Indicators, ind)
			}
		}
	}

	var err error
	if cfg.RetryAttempts, err = intEnv("HOLMES_RETRY_ATTEMPTS", cfg.RetryAttempts); err != nil {
		return Config{}, err
	}
	if cfg.CollisionMax, err = intEnv("HOLMES_COLLISION_MAX", cfg.CollisionMax); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = intEnv("HOLMES_WORKERS", cfg.Workers); err != nil {
		return Config{}, err
	}
	if raw := os.Getenv("HOLMES_RETRY_BASE_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: HOLMES_RETRY_BASE_DELAY: %w", err)
		}
		cfg.RetryBase = d
	}
	if raw := os.Getenv("HOLMES_RESIZE"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: HOLMES_RESIZE: %w", err)
		}
		cfg.Resize = b
	}

	if requireKey && cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %d", key, v)
	}
	return v, nil
}
