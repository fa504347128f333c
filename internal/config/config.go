// Package config handles loading and parsing of pastecn configuration.
// Configuration can come from an INI file and/or environment variables.
// Environment variables take precedence, following the 12-factor app
// methodology.
//
// The configuration is organized into sections:
//   - [main]: Core application settings (name, bind address, base URL)
//   - [session]: Unlock-session signing secret and lifetime
//   - [expire]: Expiration option gating
//   - [traffic]: Unlock attempt rate limiting
//   - [model]: Storage backend configuration
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds all application configuration organized by section.
type Config struct {
	Main    MainConfig
	Session SessionConfig
	Expire  ExpireConfig
	Traffic TrafficConfig
	Model   ModelConfig
}

// MainConfig contains core application settings.
type MainConfig struct {
	// Name is the application title used in log output
	Name string

	// Host is the address to bind the HTTP server to (default: 0.0.0.0)
	Host string

	// Port is the HTTP server port (default: 8080)
	Port int

	// BaseURL is the public URL prefix used to build snippet links
	BaseURL string

	// SizeLimit is the maximum snippet payload size in bytes (default: 1MB)
	SizeLimit int64
}

// SessionConfig controls unlock-session tokens for browser flows.
type SessionConfig struct {
	// Secret signs unlock-session tokens. Tokens are stateless, so
	// rotating the secret invalidates all outstanding sessions.
	Secret string

	// Duration is how long an unlock session stays valid (default: 24h)
	Duration time.Duration
}

// ExpireConfig controls which expiration options creation accepts.
type ExpireConfig struct {
	// AllowDevDurations enables the sub-minute "10s" option used by
	// tests and local development. Must stay off in production.
	AllowDevDurations bool
}

// TrafficConfig controls unlock attempt rate limiting.
// The creation path is assumed to sit behind an edge rate limiter; this
// only governs the local password-guessing surface.
type TrafficConfig struct {
	// UnlockLimit is the number of unlock attempts allowed per window
	// per snippet+IP. Set to 0 to disable local rate limiting.
	UnlockLimit int

	// UnlockWindow is the limiting window (default: 15m)
	UnlockWindow time.Duration
}

// ModelConfig defines the storage backend settings.
type ModelConfig struct {
	// Class is the storage backend type: S3, Filesystem, or Database
	Class string

	// S3-specific settings (when Class = "S3")
	S3Region    string
	S3Bucket    string
	S3Endpoint  string // optional, for MinIO-compatible stores
	S3AccessKey string
	S3SecretKey string

	// Filesystem-specific settings (when Class = "Filesystem")
	Dir string

	// Database-specific settings (when Class = "Database")
	Driver string // sqlite3, postgres, mysql
	DSN    string
}

// expireDurations are the supported lifetimes for snippets. "never" is
// the sentinel for no expiration. "10s" exists for tests and local
// development only and is gated behind Expire.AllowDevDurations.
var expireDurations = map[string]time.Duration{
	"10s": 10 * time.Second,
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// ExpireDuration resolves an expiresIn option to a duration. ok is false
// for unknown options and for dev-only options when those are disabled.
// "never" and the empty string resolve to (0, true).
func (c *Config) ExpireDuration(option string) (time.Duration, bool) {
	if option == "" || option == "never" {
		return 0, true
	}
	if option == "10s" && !c.Expire.AllowDevDurations {
		return 0, false
	}
	d, ok := expireDurations[option]
	return d, ok
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Main: MainConfig{
			Name:      "pastecn",
			Host:      "0.0.0.0",
			Port:      8080,
			BaseURL:   "http://localhost:8080",
			SizeLimit: 1024 * 1024, // 1 MiB
		},
		Session: SessionConfig{
			Secret:   "dev-secret-change-in-production",
			Duration: 24 * time.Hour,
		},
		Expire: ExpireConfig{
			AllowDevDurations: false,
		},
		Traffic: TrafficConfig{
			UnlockLimit:  5,
			UnlockWindow: 15 * time.Minute,
		},
		Model: ModelConfig{
			Class:    "Filesystem",
			Dir:      "data",
			Driver:   "sqlite3",
			DSN:      "pastecn.db",
			S3Region: "us-east-1",
			S3Bucket: "pastecn",
		},
	}
}

// Load reads configuration from an INI file and environment variables.
// Environment variables override file settings. If the config file doesn't
// exist, default values are used.
//
// Environment variable format: PASTECN_SECTION_KEY
// Example: PASTECN_MAIN_PORT=9090
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile parses an INI configuration file.
func (c *Config) loadFromFile(path string) error {
	iniFile, err := ini.Load(path)
	if err != nil {
		return err
	}

	if sec, err := iniFile.GetSection("main"); err == nil {
		c.Main.Name = sec.Key("name").MustString(c.Main.Name)
		c.Main.Host = sec.Key("host").MustString(c.Main.Host)
		c.Main.Port = sec.Key("port").MustInt(c.Main.Port)
		c.Main.BaseURL = sec.Key("baseurl").MustString(c.Main.BaseURL)
		c.Main.SizeLimit = sec.Key("sizelimit").MustInt64(c.Main.SizeLimit)
	}

	if sec, err := iniFile.GetSection("session"); err == nil {
		c.Session.Secret = sec.Key("secret").MustString(c.Session.Secret)
		if hours := sec.Key("duration_hours").MustInt(0); hours > 0 {
			c.Session.Duration = time.Duration(hours) * time.Hour
		}
	}

	if sec, err := iniFile.GetSection("expire"); err == nil {
		c.Expire.AllowDevDurations = sec.Key("allow_dev_durations").MustBool(c.Expire.AllowDevDurations)
	}

	if sec, err := iniFile.GetSection("traffic"); err == nil {
		c.Traffic.UnlockLimit = sec.Key("unlock_limit").MustInt(c.Traffic.UnlockLimit)
		if mins := sec.Key("unlock_window_minutes").MustInt(0); mins > 0 {
			c.Traffic.UnlockWindow = time.Duration(mins) * time.Minute
		}
	}

	if sec, err := iniFile.GetSection("model"); err == nil {
		c.Model.Class = sec.Key("class").MustString(c.Model.Class)
		c.Model.Dir = sec.Key("dir").MustString(c.Model.Dir)
		c.Model.Driver = sec.Key("driver").MustString(c.Model.Driver)
		c.Model.DSN = sec.Key("dsn").MustString(c.Model.DSN)
		c.Model.S3Region = sec.Key("s3_region").MustString(c.Model.S3Region)
		c.Model.S3Bucket = sec.Key("s3_bucket").MustString(c.Model.S3Bucket)
		c.Model.S3Endpoint = sec.Key("s3_endpoint").MustString(c.Model.S3Endpoint)
		c.Model.S3AccessKey = sec.Key("s3_access_key").MustString(c.Model.S3AccessKey)
		c.Model.S3SecretKey = sec.Key("s3_secret_key").MustString(c.Model.S3SecretKey)
	}

	return nil
}

// loadFromEnv overrides configuration with environment variables.
// Format: PASTECN_SECTION_KEY (e.g. PASTECN_MAIN_PORT)
func (c *Config) loadFromEnv() {
	if v := os.Getenv("PASTECN_MAIN_NAME"); v != "" {
		c.Main.Name = v
	}
	if v := os.Getenv("PASTECN_MAIN_HOST"); v != "" {
		c.Main.Host = v
	}
	if v := os.Getenv("PASTECN_MAIN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Main.Port = port
		}
	}
	if v := os.Getenv("PASTECN_MAIN_BASEURL"); v != "" {
		c.Main.BaseURL = v
	}
	if v := os.Getenv("PASTECN_MAIN_SIZELIMIT"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Main.SizeLimit = size
		}
	}

	if v := os.Getenv("PASTECN_SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("PASTECN_SESSION_DURATION_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			c.Session.Duration = time.Duration(hours) * time.Hour
		}
	}

	if v := os.Getenv("PASTECN_EXPIRE_ALLOW_DEV_DURATIONS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Expire.AllowDevDurations = b
		}
	}

	if v := os.Getenv("PASTECN_TRAFFIC_UNLOCK_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.Traffic.UnlockLimit = limit
		}
	}

	if v := os.Getenv("PASTECN_MODEL_CLASS"); v != "" {
		c.Model.Class = v
	}
	if v := os.Getenv("PASTECN_MODEL_DIR"); v != "" {
		c.Model.Dir = v
	}
	if v := os.Getenv("PASTECN_MODEL_DRIVER"); v != "" {
		c.Model.Driver = v
	}
	if v := os.Getenv("PASTECN_MODEL_DSN"); v != "" {
		c.Model.DSN = v
	}
	if v := os.Getenv("PASTECN_MODEL_S3_REGION"); v != "" {
		c.Model.S3Region = v
	}
	if v := os.Getenv("PASTECN_MODEL_S3_BUCKET"); v != "" {
		c.Model.S3Bucket = v
	}
	if v := os.Getenv("PASTECN_MODEL_S3_ENDPOINT"); v != "" {
		c.Model.S3Endpoint = v
	}
	if v := os.Getenv("PASTECN_MODEL_S3_ACCESS_KEY"); v != "" {
		c.Model.S3AccessKey = v
	}
	if v := os.Getenv("PASTECN_MODEL_S3_SECRET_KEY"); v != "" {
		c.Model.S3SecretKey = v
	}
}

// Validate checks that the configuration is valid and consistent.
func (c *Config) Validate() error {
	if c.Main.Port < 1 || c.Main.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Main.Port)
	}

	if c.Main.SizeLimit <= 0 {
		return fmt.Errorf("sizelimit must be positive, got %d", c.Main.SizeLimit)
	}

	if c.Main.BaseURL == "" {
		return fmt.Errorf("baseurl must not be empty")
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret must not be empty")
	}

	if c.Session.Duration <= 0 {
		return fmt.Errorf("session duration must be positive, got %v", c.Session.Duration)
	}

	switch c.Model.Class {
	case "S3", "Filesystem", "Database":
		// Valid
	default:
		return fmt.Errorf("model class must be 'S3', 'Filesystem', or 'Database', got %q", c.Model.Class)
	}

	if c.Model.Class == "S3" && c.Model.S3Bucket == "" {
		return fmt.Errorf("s3_bucket must not be empty when using S3 storage")
	}

	if c.Model.Class == "Database" {
		switch c.Model.Driver {
		case "sqlite3", "postgres", "mysql":
			// Valid
		default:
			return fmt.Errorf("database driver must be 'sqlite3', 'postgres', or 'mysql', got %q", c.Model.Driver)
		}
	}

	return nil
}
