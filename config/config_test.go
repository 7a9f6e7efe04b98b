package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSupabaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setSupabaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, AuthProviderSupabase, cfg.Auth.Provider)
	assert.Equal(t, "https://project.supabase.co", cfg.Supabase.URL, "trailing slash is trimmed")
	assert.Equal(t, 24*time.Hour, cfg.Enrichment.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Profile.CacheTTL)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_Overrides(t *testing.T) {
	setSupabaseEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENRICH_TIMEOUT", "3s")
	t.Setenv("ENRICH_RATE_PER_SEC", "0.5")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Enrichment.Timeout)
	assert.Equal(t, 0.5, cfg.Enrichment.RatePerSec)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 5432, cfg.Database.Port, "invalid integers fall back to the default")
}

func TestValidate(t *testing.T) {
	t.Run("supabase requires jwt secret", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://project.supabase.co")
		t.Setenv("SUPABASE_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUPABASE_JWT_SECRET")
	})

	t.Run("firebase requires credentials", func(t *testing.T) {
		t.Setenv("AUTH_PROVIDER", "firebase")
		t.Setenv("FIREBASE_CREDENTIALS_PATH", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FIREBASE_CREDENTIALS_PATH")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("AUTH_PROVIDER", "ldap")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoadDatabase_SkipsServerChecks(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_JWT_SECRET", "")
	t.Setenv("DB_DSN", "postgres://u:p@db:5432/reoutfit")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/reoutfit", cfg.Database.DSN)
}
