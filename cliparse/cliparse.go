// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	// Private in-memory SQLite database shared by the pool's connections.
	DefaultSQLiteURL = "file:quickly-spin?mode=memory&cache=shared"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminKeySalt  string
	ShareSlugSalt string
	BaseURL       string
	SpinDuration  time.Duration
	RevealPause   time.Duration
	RaffleTTL     time.Duration
	LogLevel      slog.Level
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills in defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var spinDuration, revealPause, raffleTTL, logLevel string

	fs := flag.NewFlagSet("quickly-spin", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL for share links")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.ShareSlugSalt, "slug-salt", "", "Share slug salt (prefer env)")

	// Reveal pacing and housekeeping
	fs.StringVar(&spinDuration, "spin-duration", "", "Duration of one wheel spin (e.g. 4s)")
	fs.StringVar(&revealPause, "reveal-pause", "", "Pause between consecutive winners")
	fs.StringVar(&raffleTTL, "ttl", "", "Idle time after which a raffle is purged")
	fs.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLiteURL
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.ShareSlugSalt == "" {
		cfg.ShareSlugSalt = os.Getenv("SHARE_SLUG_SALT")
	}
	if cfg.ShareSlugSalt == "" {
		return Config{}, errors.New("SHARE_SLUG_SALT required")
	}

	var err error
	if cfg.SpinDuration, err = durationOr(spinDuration, "SPIN_DURATION", 4*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RevealPause, err = durationOr(revealPause, "REVEAL_PAUSE", 1500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.RaffleTTL, err = durationOr(raffleTTL, "RAFFLE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if cfg.LogLevel, err = parseLogLevel(logLevel); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// durationOr resolves a duration from the flag value, then the env
// variable, then the fallback. Negative durations are rejected.
func durationOr(flagValue, envKey string, fallback time.Duration) (time.Duration, error) {
	raw := flagValue
	if raw == "" {
		raw = os.Getenv(envKey)
	}
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", envKey, raw)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
