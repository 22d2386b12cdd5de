package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func validEnv() map[string]string {
	return map[string]string{
		"NODE_ENV":     "development",
		"PORT":         "3001",
		"DATABASE_URL": "sqlite://board.db",
		"JWT_SECRET":   "s3cret",
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(validEnv()))
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, 3001, cfg.ServerPort)
	assert.Equal(t, "sqlite://board.db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "@every 1m", cfg.HealthCheckSchedule)
	assert.Equal(t, 720*time.Hour, cfg.EventRetention)
	assert.False(t, cfg.IsProduction())
}

func TestFromLookup_Overrides(t *testing.T) {
	env := validEnv()
	env["NODE_ENV"] = "production"
	env["JWT_EXPIRES_IN"] = "1h"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"

	cfg, err := FromLookup(lookupFrom(env))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantMsg string
	}{
		{"missing secret", func(e map[string]string) { delete(e, "JWT_SECRET") }, "JWT_SECRET is required"},
		{"missing database url", func(e map[string]string) { e["DATABASE_URL"] = "  " }, "DATABASE_URL is required"},
		{"bad env", func(e map[string]string) { e["NODE_ENV"] = "staging" }, "NODE_ENV must be one of"},
		{"port not a number", func(e map[string]string) { e["PORT"] = "abc" }, "PORT must be a number"},
		{"port out of range", func(e map[string]string) { e["PORT"] = "70000" }, "PORT must be a number"},
		{"bad expiry", func(e map[string]string) { e["JWT_EXPIRES_IN"] = "soon" }, "JWT_EXPIRES_IN must be a positive duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			tt.mutate(env)
			_, err := FromLookup(lookupFrom(env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFromLookup_ReportsEveryProblem(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{}))
	require.Error(t, err)
	for _, key := range []string{"NODE_ENV", "PORT", "DATABASE_URL", "JWT_SECRET"} {
		assert.Contains(t, err.Error(), key)
	}
}
