package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRE_MINUTES", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpire)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_EXPIRE_MINUTES", "30")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000,")
	t.Setenv("DB_DRIVER", "postgres")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpire)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestGetEnvAsMinutes_DurationString(t *testing.T) {
	t.Setenv("TEST_TTL", "90s")
	assert.Equal(t, 90*time.Second, getEnvAsMinutes("TEST_TTL", time.Hour))

	t.Setenv("TEST_TTL", "garbage")
	assert.Equal(t, time.Hour, getEnvAsMinutes("TEST_TTL", time.Hour))
}
