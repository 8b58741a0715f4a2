package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andikar-ai/gateway/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := config.Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090

auth:
  secret: "file-secret"
  token_ttl: 1h

rate_limit:
  max_requests: 50
  window_secs: 120

humanizer:
  url: "http://localhost:3000"
  timeout: 15s

database:
  path: "test.db"
`

	cfg := writeAndLoad(t, content)

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("Auth.Secret = %s, want file-secret", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.RateLimit.MaxRequests != 50 {
		t.Errorf("MaxRequests = %d, want 50", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowSecs != 120 {
		t.Errorf("WindowSecs = %d, want 120", cfg.RateLimit.WindowSecs)
	}
	if cfg.Humanizer.URL != "http://localhost:3000" {
		t.Errorf("Humanizer.URL = %s", cfg.Humanizer.URL)
	}
	if cfg.Humanizer.Timeout != 15*time.Second {
		t.Errorf("Humanizer.Timeout = %v, want 15s", cfg.Humanizer.Timeout)
	}
	if cfg.Database.Path != "test.db" {
		t.Errorf("Database.Path = %s, want test.db", cfg.Database.Path)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, "{}\n")

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("default MaxRequests = %d, want 100", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowSecs != 60 {
		t.Errorf("default WindowSecs = %d, want 60", cfg.RateLimit.WindowSecs)
	}
	if cfg.Humanizer.URL != config.DefaultHumanizerURL {
		t.Errorf("default Humanizer.URL = %s", cfg.Humanizer.URL)
	}
	if cfg.Detector.URL != config.DefaultDetectorURL {
		t.Errorf("default Detector.URL = %s", cfg.Detector.URL)
	}
	if cfg.Database.Path != "andikar.db" {
		t.Errorf("default Database.Path = %s, want andikar.db", cfg.Database.Path)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("default logging = %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled by default")
	}
	if !cfg.OpenAPI.Enabled {
		t.Error("openapi should be enabled by default")
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("default TokenTTL = %v, want 30m", cfg.Auth.TokenTTL)
	}
}

func TestLoad_ExplicitDisable(t *testing.T) {
	content := `
metrics:
  enabled: false
openapi:
  enabled: false
`
	cfg := writeAndLoad(t, content)

	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled")
	}
	if cfg.OpenAPI.Enabled {
		t.Error("openapi should be disabled")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("RATE_LIMIT_REQUESTS", "7")
	t.Setenv("RATE_LIMIT_PERIOD", "30")
	t.Setenv("PORT", "9999")
	t.Setenv("HUMANIZER_API_URL", "http://humanizer.local")
	t.Setenv("DATABASE_PATH", "/tmp/env.db")

	cfg := writeAndLoad(t, `
auth:
  secret: "file-secret"
rate_limit:
  max_requests: 50
`)

	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("Secret = %s, env should override file", cfg.Auth.Secret)
	}
	if cfg.RateLimit.MaxRequests != 7 {
		t.Errorf("MaxRequests = %d, want 7", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowSecs != 30 {
		t.Errorf("WindowSecs = %d, want 30", cfg.RateLimit.WindowSecs)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Humanizer.URL != "http://humanizer.local" {
		t.Errorf("Humanizer.URL = %s", cfg.Humanizer.URL)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "env-only-secret")
	t.Setenv("MPESA_CONSUMER_KEY", "ck")
	t.Setenv("MPESA_CONSUMER_SECRET", "cs")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}

	if cfg.Auth.Secret != "env-only-secret" {
		t.Errorf("Secret = %s", cfg.Auth.Secret)
	}
	if cfg.Mpesa.ConsumerKey != "ck" || cfg.Mpesa.ConsumerSecret != "cs" {
		t.Errorf("Mpesa = %+v", cfg.Mpesa)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("MaxRequests = %d, want default 100", cfg.RateLimit.MaxRequests)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"zero window", "rate_limit:\n  max_requests: 10\n  window_secs: -1\n"},
		{"admin without password", "admin:\n  username: root\n"},
		{"bad yaml", "server: [\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, tc.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadWithFallback_MissingFile(t *testing.T) {
	t.Setenv("SECRET_KEY", "fallback-secret")

	cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Auth.Secret != "fallback-secret" {
		t.Errorf("Secret = %s, want fallback-secret", cfg.Auth.Secret)
	}
}
