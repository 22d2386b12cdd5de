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

// Environment is the deployment environment the service runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// Config holds the application configuration.
type Config struct {
	Env         Environment
	ServerPort  int
	DatabaseURL string
	JWTSecret   string
	JWTExpiry   time.Duration

	CORSAllowedOrigins []string
	LogLevel           string

	HealthCheckSchedule string
	EventPruneSchedule  string
	EventRetention      time.Duration
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == Production
}

// Load reads a .env file if one exists, then builds the configuration from
// environment variables. NODE_ENV, PORT, DATABASE_URL and JWT_SECRET are
// required; every problem found is reported in the returned error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration using lookup to resolve variables.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	var problems []string
	require := func(key string) string {
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			problems = append(problems, key+" is required")
			return ""
		}
		return strings.TrimSpace(value)
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}
	duration := func(key, fallback string) time.Duration {
		raw := optional(key, fallback)
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive duration, got %q", key, raw))
		}
		return d
	}

	cfg := &Config{}

	env := Environment(require("NODE_ENV"))
	switch env {
	case Development, Production, Test:
		cfg.Env = env
	case "":
	default:
		problems = append(problems, fmt.Sprintf("NODE_ENV must be one of development, production, test, got %q", env))
	}

	if portStr := require("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			problems = append(problems, fmt.Sprintf("PORT must be a number between 1 and 65535, got %q", portStr))
		}
		cfg.ServerPort = port
	}

	cfg.DatabaseURL = require("DATABASE_URL")
	cfg.JWTSecret = require("JWT_SECRET")
	cfg.JWTExpiry = duration("JWT_EXPIRES_IN", "24h")

	for _, origin := range strings.Split(optional("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	cfg.LogLevel = optional("LOG_LEVEL", "info")

	cfg.HealthCheckSchedule = optional("HEALTH_CHECK_SCHEDULE", "@every 1m")
	cfg.EventPruneSchedule = optional("EVENT_PRUNE_SCHEDULE", "0 3 * * *")
	cfg.EventRetention = duration("EVENT_RETENTION", "720h")

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}
