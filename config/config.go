// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Humanizer ServiceConfig   `yaml:"humanizer"`
	Detector  ServiceConfig   `yaml:"detector"`
	Mpesa     MpesaConfig     `yaml:"mpesa"`
	Database  DatabaseConfig  `yaml:"database"`
	Admin     AdminConfig     `yaml:"admin"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	OpenAPI   OpenAPIConfig   `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// AuthConfig configures JWT authentication.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// RateLimitConfig configures the sliding window rate limiter.
type RateLimitConfig struct {
	MaxRequests int `yaml:"max_requests"`
	WindowSecs  int `yaml:"window_secs"`
}

// ServiceConfig configures an external text service.
type ServiceConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// MpesaConfig configures the M-Pesa payment provider. Empty
// credentials put the provider in simulation mode.
type MpesaConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	ConsumerKey    string `yaml:"consumer_key,omitempty"`
	ConsumerSecret string `yaml:"consumer_secret,omitempty"`
	ShortCode      string `yaml:"short_code,omitempty"`
	Passkey        string `yaml:"passkey,omitempty"`
	CallbackURL    string `yaml:"callback_url,omitempty"`
}

// DatabaseConfig configures the database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AdminConfig configures the first-run admin account.
type AdminConfig struct {
	Username string `yaml:"username,omitempty"`
	Email    string `yaml:"email,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"`
}

// newConfig returns a config with the on/off features enabled, so a
// file or environment can opt out explicitly.
func newConfig() Config {
	return Config{
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		OpenAPI: OpenAPIConfig{Enabled: true},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	cfg := newConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// This is useful for Docker deployments where no config file is needed.
//
// Environment variables:
//
//	SECRET_KEY              - JWT signing secret
//	DATABASE_PATH           - SQLite database path (default: andikar.db)
//	PORT                    - Server port (default: 8080)
//	RATE_LIMIT_REQUESTS     - Max requests per window (default: 100)
//	RATE_LIMIT_PERIOD       - Window length in seconds (default: 60)
//	HUMANIZER_API_URL       - Humanizer service URL
//	AI_DETECTOR_API_URL     - Detection service URL (placeholder = disabled)
//	AI_DETECTOR_API_KEY     - Detection service API key
//	MPESA_CONSUMER_KEY      - M-Pesa consumer key (absent = simulated)
//	MPESA_CONSUMER_SECRET   - M-Pesa consumer secret
//	MPESA_SHORT_CODE        - M-Pesa business short code
//	MPESA_PASSKEY           - M-Pesa STK push passkey
//	MPESA_CALLBACK_URL      - Payment callback URL
//	ADMIN_USERNAME          - Admin account for first-run bootstrap
//	ADMIN_EMAIL             - Admin email
//	ADMIN_PASSWORD          - Admin password
//	ANDIKAR_LOG_LEVEL       - Log level: debug, info, warn, error (default: info)
//	ANDIKAR_LOG_FORMAT      - Log format: json or console (default: json)
//	ANDIKAR_METRICS_ENABLED - Enable /metrics endpoint (default: true)
//	ANDIKAR_OPENAPI_ENABLED - Enable OpenAPI/Swagger (default: true)
func LoadFromEnv() (*Config, error) {
	cfg := newConfig()

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment
// variables, and finally to built-in defaults.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// HasEnvConfig returns true if essential environment variables are set.
func HasEnvConfig() bool {
	return os.Getenv("SECRET_KEY") != "" || os.Getenv("DATABASE_PATH") != ""
}

// applyEnvOverrides applies environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("ANDIKAR_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ANDIKAR_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("ANDIKAR_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Auth configuration
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Auth.TokenTTL = time.Duration(n) * time.Minute
		}
	}

	// Rate limit configuration
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.MaxRequests = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.WindowSecs = n
		}
	}

	// External services
	if v := os.Getenv("HUMANIZER_API_URL"); v != "" {
		cfg.Humanizer.URL = v
	}
	if v := os.Getenv("AI_DETECTOR_API_URL"); v != "" {
		cfg.Detector.URL = v
	}
	if v := os.Getenv("AI_DETECTOR_API_KEY"); v != "" {
		cfg.Detector.APIKey = v
	}

	// M-Pesa configuration
	if v := os.Getenv("MPESA_BASE_URL"); v != "" {
		cfg.Mpesa.BaseURL = v
	}
	if v := os.Getenv("MPESA_CONSUMER_KEY"); v != "" {
		cfg.Mpesa.ConsumerKey = v
	}
	if v := os.Getenv("MPESA_CONSUMER_SECRET"); v != "" {
		cfg.Mpesa.ConsumerSecret = v
	}
	if v := os.Getenv("MPESA_SHORT_CODE"); v != "" {
		cfg.Mpesa.ShortCode = v
	}
	if v := os.Getenv("MPESA_PASSKEY"); v != "" {
		cfg.Mpesa.Passkey = v
	}
	if v := os.Getenv("MPESA_CALLBACK_URL"); v != "" {
		cfg.Mpesa.CallbackURL = v
	}

	// Database configuration
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Admin bootstrap
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.Admin.Email = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}

	// Logging configuration
	if v := os.Getenv("ANDIKAR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ANDIKAR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("ANDIKAR_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("ANDIKAR_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// OpenAPI configuration
	if v := os.Getenv("ANDIKAR_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// Default URLs for environments where nothing is configured. The
// detector default is a placeholder that disables external detection.
const (
	DefaultHumanizerURL = "https://web-production-3db6c.up.railway.app"
	DefaultDetectorURL  = "https://ai-detector-api.example.com"
)

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-secret-change-me"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 30 * time.Minute
	}

	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 100
	}
	if cfg.RateLimit.WindowSecs == 0 {
		cfg.RateLimit.WindowSecs = 60
	}

	if cfg.Humanizer.URL == "" {
		cfg.Humanizer.URL = DefaultHumanizerURL
	}
	if cfg.Humanizer.Timeout == 0 {
		cfg.Humanizer.Timeout = 30 * time.Second
	}
	if cfg.Detector.URL == "" {
		cfg.Detector.URL = DefaultDetectorURL
	}
	if cfg.Detector.Timeout == 0 {
		cfg.Detector.Timeout = 10 * time.Second
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "andikar.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.RateLimit.MaxRequests < 1 {
		return fmt.Errorf("rate_limit.max_requests must be at least 1")
	}
	if cfg.RateLimit.WindowSecs < 1 {
		return fmt.Errorf("rate_limit.window_secs must be at least 1")
	}
	if cfg.Humanizer.URL == "" {
		return fmt.Errorf("humanizer.url is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	if cfg.Admin.Username != "" && cfg.Admin.Password == "" {
		return fmt.Errorf("admin.password is required when admin.username is set")
	}
	return nil
}
