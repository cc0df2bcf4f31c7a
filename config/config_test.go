package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	// The error names the missing variable so the operator knows what to set.
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("PORT", "")
	t.Setenv("MAIL_PROVIDER", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "noop", cfg.Mail.Provider)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.NotZero(t, cfg.RequestTimeout)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("ALLOWED_ORIGINS", " https://app.example.com , https://admin.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}
