package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORE_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "storefront_ctx", cfg.Session.Cookie)
	assert.Equal(t, 720*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, "ar", cfg.Locale.Default)
	assert.Equal(t, 6, cfg.Auth.MinPasswordLength)
	assert.True(t, cfg.Auth.SeedDemoUsers)
	assert.Equal(t, 99, cfg.Cart.DefaultMaxQuantity)
	assert.Equal(t, 1500*time.Millisecond, cfg.Submission.Delay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 64, cfg.Worker.GeneralPoolSize)
	assert.Equal(t, 16, cfg.Worker.SubmissionsPoolSize)
	assert.Len(t, cfg.Security.SessionSecret, 64)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("STORE_SQLITE_PATH", "/tmp/storefront-test.db")
	t.Setenv("LOCALE_DEFAULT", "en")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://parts.example.com")
	t.Setenv("SECURITY_SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/storefront-test.db", cfg.Store.SQLitePath)
	assert.Equal(t, "en", cfg.Locale.Default)
	assert.Equal(t, []string{"https://parts.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Security.SessionSecret)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store:    StoreConfig{Backend: BackendMemory},
			Locale:   LocaleConfig{Default: "ar"},
			Auth:     AuthConfig{MinPasswordLength: 6},
			Cart:     CartConfig{DefaultMaxQuantity: 99},
			Security: SecurityConfig{SessionSecret: "0123456789abcdef0123456789abcdef"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.Security.SessionSecret = "short" }, "session_secret"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"sqlite without path", func(c *Config) { c.Store.Backend = BackendSQLite }, "sqlite_path"},
		{"postgres without url", func(c *Config) { c.Store.Backend = BackendPostgres }, "database_url"},
		{"unsupported locale", func(c *Config) { c.Locale.Default = "fr" }, "locale.default"},
		{"zero cart cap", func(c *Config) { c.Cart.DefaultMaxQuantity = 0 }, "default_max_quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnsureSecrets(t *testing.T) {
	t.Parallel()

	generated := &Config{}
	require.NoError(t, generated.ensureSecrets())
	assert.Len(t, generated.Security.SessionSecret, 64)

	provided := &Config{Security: SecurityConfig{SessionSecret: "keep-me-keep-me-keep-me-keep-me!"}}
	require.NoError(t, provided.ensureSecrets())
	assert.Equal(t, "keep-me-keep-me-keep-me-keep-me!", provided.Security.SessionSecret)
}
