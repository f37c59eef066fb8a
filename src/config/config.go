package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session marker backends
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config holds the runtime settings of the ez-rental driver
type Config struct {
	Log struct {
		Level  string // debug, info, warn, error
		Format string // json, console
	}

	// YAML sample catalog loaded at start
	FixturesPath string

	Session struct {
		Backend string
		File    string
		TTL     time.Duration // Zero keeps the marker until sign-out
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		Key      string
	}

	// Optional; rooms are kept in PostgreSQL when set
	DatabaseURL string
}

// NewConfig loads an optional .env file, then reads EZR_* environment variables.
// Variables already set in the environment win over the file.
func NewConfig(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	cfg := &Config{}
	cfg.Log.Level = getEnv("EZR_LOG_LEVEL", "info")
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid EZR_LOG_LEVEL %q", cfg.Log.Level)
	}
	cfg.Log.Format = getEnv("EZR_LOG_FORMAT", "console")
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return nil, fmt.Errorf("invalid EZR_LOG_FORMAT %q", cfg.Log.Format)
	}

	cfg.FixturesPath = getEnv("EZR_FIXTURES", filepath.Join("testdata", "fixtures.yaml"))

	cfg.Session.Backend = getEnv("EZR_SESSION_BACKEND", SessionBackendFile)
	switch cfg.Session.Backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendMemory:
	default:
		return nil, fmt.Errorf("invalid EZR_SESSION_BACKEND %q", cfg.Session.Backend)
	}
	cfg.Session.File = getEnv("EZR_SESSION_FILE", defaultSessionFile())

	ttl, err := time.ParseDuration(getEnv("EZR_SESSION_TTL", "0s"))
	if err != nil || ttl < 0 {
		return nil, fmt.Errorf("invalid EZR_SESSION_TTL %q", os.Getenv("EZR_SESSION_TTL"))
	}
	cfg.Session.TTL = ttl

	cfg.Redis.Addr = getEnv("EZR_REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("EZR_REDIS_PASSWORD")
	cfg.Redis.Key = getEnv("EZR_REDIS_KEY", "ez-rental:session")
	db, err := strconv.Atoi(getEnv("EZR_REDIS_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("invalid EZR_REDIS_DB %q", os.Getenv("EZR_REDIS_DB"))
	}
	cfg.Redis.DB = db

	cfg.DatabaseURL = os.Getenv("EZR_DATABASE_URL")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ez-rental-session.json"
	}
	return filepath.Join(home, ".ez-rental", "session.json")
}
