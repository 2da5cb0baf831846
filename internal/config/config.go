// Package config loads and validates environment variables at startup.
// A .env file in the working directory is read first when it exists;
// real environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends understood by the web server.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
)

// Config holds all runtime configuration for the web server and the CLI.
type Config struct {
	APIBaseURL     string
	Port           string
	SessionBackend string
	RedisURL       string
	DatabaseURL    string
	SessionDir     string
	SessionTTL     time.Duration
	SessionCookie  string
	CookieSecure   bool
	SweepSpec      string
	HTTPTimeout    time.Duration
	CORSOrigins    []string
	GinMode        string

	WorkspaceLimit int
	WorkspaceIdle  time.Duration
}

// Load reads .env (if present) and the environment and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an arbitrary lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:     strings.TrimRight(orDefault(getenv("API_BASE_URL"), "http://localhost:5000/api"), "/"),
		Port:           orDefault(getenv("WEB_PORT"), "8080"),
		SessionBackend: orDefault(getenv("SESSION_BACKEND"), BackendFile),
		RedisURL:       getenv("REDIS_URL"),
		DatabaseURL:    getenv("DATABASE_URL"),
		SessionDir:     orDefault(getenv("SESSION_DIR"), ".sessions"),
		SessionCookie:  orDefault(getenv("SESSION_COOKIE"), "token"),
		SweepSpec:      orDefault(getenv("SWEEP_SPEC"), "@every 1h"),
		GinMode:        getenv("GIN_MODE"),
	}

	ttlHours, err := positiveInt(getenv, "SESSION_TTL_HOURS", 168)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	timeoutSeconds, err := positiveInt(getenv, "HTTP_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = time.Duration(timeoutSeconds) * time.Second

	// Release builds are served over HTTPS; everything else defaults to a
	// plain-HTTP cookie so local development keeps working.
	cfg.CookieSecure = cfg.GinMode == "release"
	if v := getenv("SESSION_COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_COOKIE_SECURE must be a boolean, got %q", v)
		}
		cfg.CookieSecure = secure
	}

	if cfg.WorkspaceLimit, err = positiveInt(getenv, "WORKSPACE_LIMIT", 4096); err != nil {
		return nil, err
	}
	idleMinutes, err := positiveInt(getenv, "WORKSPACE_IDLE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.WorkspaceIdle = time.Duration(idleMinutes) * time.Minute

	if origins := getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	switch cfg.SessionBackend {
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when SESSION_BACKEND=%s", BackendRedis)
		}
	case BackendPostgres, BackendSQLite:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when SESSION_BACKEND=%s", cfg.SessionBackend)
		}
	case BackendFile:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be one of redis, postgres, sqlite, file; got %q", cfg.SessionBackend)
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
