package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "cuentix")
	t.Setenv("DB_NAME", "inventory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CREDENTIAL_KEY", "00ff")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Worker.ExpiryInterval)
	assert.Equal(t, time.Minute, cfg.Worker.SweepInterval)
	assert.Equal(t, 30*time.Minute, cfg.Worker.DraftTTL)
	assert.Equal(t, 5*time.Minute, cfg.Worker.ConfirmTTL)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DRAFT_TTL", "1h")
	t.Setenv("STOREFRONT_CALLBACK_URL", "https://tienda.example.com/callbacks")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Worker.DraftTTL)
	assert.Equal(t, "https://tienda.example.com/callbacks", cfg.Storefront.CallbackURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestLoad_MissingCredentialKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CREDENTIAL_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CREDENTIAL_KEY")
}

func TestLoad_BadDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SWEEP_INTERVAL", "pronto")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
}
