package config_test

import (
	"os"
	"testing"

	"github.com/dom/asset-vault-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the test and restores any prior value afterwards.
// t.Setenv("", ...) is not enough here: Load treats an empty value as set.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if prev, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, prev) })
	}
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "LOG_LEVEL", "ADMIN_EMAILS"} {
		unsetEnv(t, key)
	}
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/vault?sslmode=disable")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.AdminEmails)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	unsetEnv(t, "DATABASE_URL")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/vault")
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_AdminEmails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/vault")

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "single",
			value: "ops@example.com",
			want:  []string{"ops@example.com"},
		},
		{
			name:  "multiple with spaces",
			value: "ops@example.com, admin@example.com",
			want:  []string{"ops@example.com", "admin@example.com"},
		},
		{
			name:  "empty entries dropped",
			value: "ops@example.com,, ,admin@example.com,",
			want:  []string{"ops@example.com", "admin@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMIN_EMAILS", tt.value)

			cfg, err := config.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.AdminEmails)
		})
	}
}
