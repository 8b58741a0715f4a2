package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/andikar-ai/gateway/app"
	"github.com/andikar-ai/gateway/bootstrap"
	"github.com/andikar-ai/gateway/config"
	"github.com/andikar-ai/gateway/domain/plan"
)

func newApp(t *testing.T, opts bootstrap.Options) *bootstrap.App {
	t.Helper()
	// Metrics register on the default prometheus registry, which only
	// tolerates one registration per process.
	t.Setenv("ANDIKAR_METRICS_ENABLED", "false")
	t.Setenv("ANDIKAR_OPENAPI_ENABLED", "false")

	a, err := bootstrap.New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Shutdown() })
	return a
}

func TestNewInMemory(t *testing.T) {
	a := newApp(t, bootstrap.Options{InMemory: true})

	if a.Account == nil || a.Text == nil || a.Payments == nil || a.Stats == nil {
		t.Fatal("expected all services to be wired")
	}
	if a.DB != nil {
		t.Fatal("in-memory app should not open a database")
	}

	rec := httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("health status = %q, want ok", body.Status)
	}
}

func TestNewSQLite(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "gateway.db"))

	a := newApp(t, bootstrap.Options{})
	if a.DB == nil {
		t.Fatal("expected a database")
	}
	if err := a.DB.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSeedsDefaultPlans(t *testing.T) {
	a := newApp(t, bootstrap.Options{InMemory: true})

	// Registration resolves the free plan, which only exists if
	// seeding ran.
	u, err := a.Account.Register(context.Background(), app.RegisterInput{
		Username: "amina",
		Email:    "amina@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.PlanID != plan.FreeID {
		t.Fatalf("plan = %q, want %q", u.PlanID, plan.FreeID)
	}
}

func TestSeedsAdminAccount(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "s3cret-admin")

	a := newApp(t, bootstrap.Options{InMemory: true})

	u, err := a.Account.Authenticate(context.Background(), "admin", "s3cret-admin")
	if err != nil {
		t.Fatalf("authenticate admin: %v", err)
	}
	if !u.IsActive {
		t.Fatal("admin account should be active")
	}
}

func TestConfigFileHolder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := []byte(`
server:
  host: 127.0.0.1
  port: 9099
rate_limit:
  max_requests: 7
  window_secs: 30
metrics:
  enabled: false
openapi:
  enabled: false
`)
	if err := os.WriteFile(path, cfg, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a := newApp(t, bootstrap.Options{ConfigPath: path, InMemory: true})
	if a.Holder == nil {
		t.Fatal("expected a config holder for a file-based config")
	}
	if a.Config.RateLimit.MaxRequests != 7 {
		t.Fatalf("max_requests = %d, want 7", a.Config.RateLimit.MaxRequests)
	}
	if a.HTTPServer.Addr != "127.0.0.1:9099" {
		t.Fatalf("addr = %q", a.HTTPServer.Addr)
	}
}

func TestMissingConfigFileFallsBack(t *testing.T) {
	a := newApp(t, bootstrap.Options{ConfigPath: "/does/not/exist.yaml", InMemory: true})
	if a.Holder != nil {
		t.Fatal("expected no holder when the config file is missing")
	}
	if a.Config.Server.Port == 0 {
		t.Fatal("expected defaulted config")
	}
}

func TestSetupLogger(t *testing.T) {
	logger := bootstrap.SetupLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	logger.Debug().Msg("wired")

	// Unknown levels fall back to info rather than failing startup.
	bootstrap.SetupLogger(config.LoggingConfig{Level: "chatty"})
}
