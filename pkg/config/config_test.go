package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("TOKEN_TTL_MINUTES", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.ConnectionCacheTTL)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
	assert.Equal(t, 10, cfg.AuthRateBurst)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("TOKEN_TTL_MINUTES", "5")
	t.Setenv("ENV", "production")
	t.Setenv("AUTH_RATE_LIMIT", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0.5, cfg.AuthRateLimit)
}

func TestValidate(t *testing.T) {
	valid := Config{DatabaseDriver: "postgres", DatabaseURL: "dsn", JWTSecret: "s", TokenTTL: time.Minute, UploadDir: "./uploads"}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.DatabaseDriver = "mysql"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.JWTSecret = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.TokenTTL = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.AuthRateLimit = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.UploadDir = ""
	assert.Error(t, bad.Validate())
}

func TestOpenSQLRejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQL("oracle", "dsn")
	assert.Error(t, err)
}
