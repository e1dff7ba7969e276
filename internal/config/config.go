// Package config provides configuration management for the storefront service.
//
// Configuration is loaded from:
// 1. .env file (optional, loaded into the process environment)
// 2. config.yaml file (optional)
// 3. Environment variables (STORE_BACKEND, SERVER_PORT, LOG_LEVEL, ...)
// 4. Default values
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	Session    SessionConfig    `mapstructure:"session"`
	Locale     LocaleConfig     `mapstructure:"locale"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Cart       CartConfig       `mapstructure:"cart"`
	Submission SubmissionConfig `mapstructure:"submission"`
	Log        LogConfig        `mapstructure:"log"`
	Security   SecurityConfig   `mapstructure:"security"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// StoreConfig selects and configures the persistent key-value backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"` // memory, sqlite or postgres
	SQLitePath string `mapstructure:"sqlite_path"`

	DatabaseURL     string        `mapstructure:"database_url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// SessionConfig contains browser-context cookie settings.
type SessionConfig struct {
	Cookie   string        `mapstructure:"cookie"`
	Lifetime time.Duration `mapstructure:"lifetime"`
	Secure   bool          `mapstructure:"secure"`
	Issuer   string        `mapstructure:"issuer"`
	// IdleTimeout drops in-memory engines of unused contexts; their state
	// stays in the store.
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LocaleConfig contains language settings.
type LocaleConfig struct {
	Default string `mapstructure:"default"`
}

// AuthConfig contains mock directory settings.
type AuthConfig struct {
	BcryptCost        int  `mapstructure:"bcrypt_cost"`
	MinPasswordLength int  `mapstructure:"min_password_length"`
	SeedDemoUsers     bool `mapstructure:"seed_demo_users"`
}

// CartConfig contains cart limits.
type CartConfig struct {
	DefaultMaxQuantity int `mapstructure:"default_max_quantity"`
}

// SubmissionConfig contains simulated form submission settings.
type SubmissionConfig struct {
	Delay     time.Duration `mapstructure:"delay"`
	Retention time.Duration `mapstructure:"retention"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// SecurityConfig contains security-related settings.
type SecurityConfig struct {
	SessionSecret string `mapstructure:"session_secret"`
}

// WorkerConfig contains worker pool settings.
type WorkerConfig struct {
	GeneralPoolSize     int `mapstructure:"general_pool_size"`
	SubmissionsPoolSize int `mapstructure:"submissions_pool_size"`
}

var (
	bootstrapLoggerOnce sync.Once
	bootstrapLogger     *zap.Logger
)

// Load reads configuration from .env, config file and environment variables.
// Nested keys map to upper-case env names: store.backend -> STORE_BACKEND.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.ensureSecrets(); err != nil {
		return nil, fmt.Errorf("ensure secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if len(c.Security.SessionSecret) < 32 {
		return fmt.Errorf("security.session_secret must be at least 32 characters")
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("store.backend %q is not one of memory, sqlite, postgres", c.Store.Backend)
	}
	if c.Locale.Default != "ar" && c.Locale.Default != "en" {
		return fmt.Errorf("locale.default must be ar or en, got %q", c.Locale.Default)
	}
	if c.Auth.MinPasswordLength < 1 {
		return fmt.Errorf("auth.min_password_length must be positive")
	}
	if c.Cart.DefaultMaxQuantity < 1 {
		return fmt.Errorf("cart.default_max_quantity must be positive")
	}
	return nil
}

// ensureSecrets generates a session secret when none is configured. Cookies
// then do not survive a restart, which only costs visitors their context.
func (c *Config) ensureSecrets() error {
	if c.Security.SessionSecret != "" {
		return nil
	}
	secret, err := generateSecureRandomHex(32)
	if err != nil {
		return fmt.Errorf("auto-generate session secret: %w", err)
	}
	c.Security.SessionSecret = secret
	logBootstrapWarn(
		"auto-generated session_secret; set SECURITY_SESSION_SECRET to keep browser contexts across restarts",
		zap.Int("length", len(secret)),
	)
	return nil
}

func logBootstrapWarn(msg string, fields ...zap.Field) {
	bootstrapLoggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

		l, err := cfg.Build()
		if err != nil {
			bootstrapLogger = zap.NewNop()
			return
		}
		bootstrapLogger = l
	})

	bootstrapLogger.Warn(msg, fields...)
}

// generateSecureRandomHex produces a hex-encoded string of n random bytes.
func generateSecureRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0s") // SSE streams stay open
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	// Store
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.sqlite_path", "storefront.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("store.max_conn_lifetime", "1h")
	v.SetDefault("store.max_conn_idle_time", "10m")

	// Session
	v.SetDefault("session.cookie", "storefront_ctx")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.issuer", "storefront")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.sweep_interval", "5m")

	// Locale
	v.SetDefault("locale.default", "ar")

	// Auth
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.min_password_length", 6)
	v.SetDefault("auth.seed_demo_users", true)

	// Cart
	v.SetDefault("cart.default_max_quantity", 99)

	// Submission
	v.SetDefault("submission.delay", "1500ms")
	v.SetDefault("submission.retention", "10m")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Worker pools
	v.SetDefault("worker.general_pool_size", 64)
	v.SetDefault("worker.submissions_pool_size", 16)
}
