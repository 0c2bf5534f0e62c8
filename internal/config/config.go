// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// DefaultFeedURL is the published question sheet used when FEED_URL is unset.
const DefaultFeedURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSDR8FLvzRE3xt2vRiBPy043pDMCRJbnrmm4AEj6k4SYRQ5OSMzIjhWjeUASPMWX0I5SFK3Zl1P1pPB/pub?gid=1081595336&single=true&output=csv"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Feed     FeedConfig
	Store    StoreConfig
	Quiz     QuizConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// FeedConfig describes where questions come from.
type FeedConfig struct {
	// URL is the published sheet export, a file:// URL or a local path
	URL string `env:"FEED_URL" envAlt:"CSV_URL" default:"https://docs.google.com/spreadsheets/d/e/2PACX-1vSDR8FLvzRE3xt2vRiBPy043pDMCRJbnrmm4AEj6k4SYRQ5OSMzIjhWjeUASPMWX0I5SFK3Zl1P1pPB/pub?gid=1081595336&single=true&output=csv"`

	// Format is auto, csv or xlsx (default: auto)
	Format string `env:"FEED_FORMAT" default:"auto"`

	// Timeout bounds one fetch (default: 20s)
	Timeout time.Duration `env:"FEED_TIMEOUT" default:"20s"`

	// MaxBytes caps the body size (default: 20MB)
	MaxBytes int64 `env:"FEED_MAX_BYTES" default:"20971520"`

	// RefreshInterval reloads the feed periodically; 0 disables (default: 0s)
	RefreshInterval time.Duration `env:"FEED_REFRESH_INTERVAL" default:"0s"`
}

// StoreConfig selects and configures the durable key-value store.
type StoreConfig struct {
	// Backend is memory, file, postgres or sqlite (default: file)
	Backend string `env:"STORE_BACKEND" default:"file"`

	// Path is the JSON file used by the file backend
	Path string `env:"STORE_PATH" default:"data/sheetquiz.json"`

	// SQLitePath is the database file used by the sqlite backend
	SQLitePath string `env:"STORE_SQLITE_PATH" default:"data/sheetquiz.db"`

	// DatabaseURL is the PostgreSQL connection string for the postgres backend.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// WeakKey is the key the weak list is stored under (default: weak:default)
	WeakKey string `env:"WEAK_KEY" default:"weak:default"`
}

// QuizConfig holds quiz defaults used until the user saves their own.
type QuizConfig struct {
	// Order is fixed or random (default: fixed)
	Order string `env:"QUIZ_ORDER" default:"fixed"`

	// Limit caps questions per session; 0 means all (default: 0)
	Limit int `env:"QUIZ_LIMIT" default:"0"`

	// SessionTTL is how long an idle quiz session is kept (default: 2h)
	SessionTTL time.Duration `env:"QUIZ_SESSION_TTL" default:"2h"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ReloadLimit is requests per minute for the reload endpoint (default: 6)
	ReloadLimit int `env:"RATE_LIMIT_RELOAD" default:"6"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey protects mutating /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
