// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/andikar-ai/gateway/adapters/clock"
	"github.com/andikar-ai/gateway/adapters/hasher"
	"github.com/andikar-ai/gateway/adapters/idgen"
	"github.com/andikar-ai/gateway/adapters/memory"
	"github.com/andikar-ai/gateway/adapters/metrics"
	"github.com/andikar-ai/gateway/adapters/payment"
	"github.com/andikar-ai/gateway/adapters/sqlite"
	"github.com/andikar-ai/gateway/adapters/textservice"
	"github.com/andikar-ai/gateway/app"
	"github.com/andikar-ai/gateway/config"
	"github.com/andikar-ai/gateway/domain/account"
	"github.com/andikar-ai/gateway/domain/plan"
	"github.com/andikar-ai/gateway/domain/ratelimit"
	"github.com/andikar-ai/gateway/ports"
	"github.com/andikar-ai/gateway/web"
)

// Options selects how the application is assembled.
type Options struct {
	// ConfigPath is an optional YAML config file. When empty or
	// missing, configuration comes from the environment with defaults.
	ConfigPath string

	// InMemory swaps SQLite for in-memory stores. State is lost on
	// exit; intended for local development.
	InMemory bool
}

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	Holder     *config.Holder
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	Account    *app.AccountService
	Text       *app.TextService
	Payments   *app.PaymentService
	Stats      *app.StatsService
	Accountant *app.Accountant

	limiter *app.RateLimiter
	stores  stores
}

// stores groups the persistence ports behind one swap point.
type stores struct {
	users   ports.UserStore
	plans   ports.PlanStore
	txs     ports.TransactionStore
	apiLogs ports.APILogStore
	rates   ports.RateLimitStore
	usage   ports.UsageStore
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	cfg, holder, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger := SetupLogger(cfg.Logging)
	logger.Info().Msg("initializing andikar gateway")

	a := &App{
		Logger: logger,
		Config: cfg,
		Holder: holder,
	}

	if err := a.initStores(opts.InMemory); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := a.seed(ctx); err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	if err := a.initServices(); err != nil {
		return nil, err
	}

	a.initHTTPServer()
	a.wireReload()

	return a, nil
}

func loadConfig(path string) (*config.Config, *config.Holder, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			holder, err := config.NewHolder(path, zerolog.New(os.Stdout).With().Timestamp().Logger())
			if err != nil {
				return nil, nil, err
			}
			return holder.Get(), holder, nil
		}
	}

	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil, nil
}

func (a *App) initStores(inMemory bool) error {
	if inMemory {
		a.stores = stores{
			users:   memory.NewUserStore(),
			plans:   memory.NewPlanStore(),
			txs:     memory.NewTransactionStore(),
			apiLogs: memory.NewAPILogStore(),
			rates:   memory.NewRateLimitStore(),
			usage:   memory.NewUsageStore(),
		}
		a.Logger.Info().Msg("using in-memory stores")
		return nil
	}

	db, err := sqlite.Open(a.Config.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	a.DB = db
	a.Logger.Info().Str("path", a.Config.Database.Path).Msg("database initialized")

	a.stores = stores{
		users:   sqlite.NewUserStore(db),
		plans:   sqlite.NewPlanStore(db),
		txs:     sqlite.NewTransactionStore(db),
		apiLogs: sqlite.NewAPILogStore(db),
		rates:   sqlite.NewRateLimitStore(db),
		usage:   sqlite.NewUsageStore(db),
	}
	return nil
}

// seed inserts the default pricing plans when none exist, and the
// configured admin account.
func (a *App) seed(ctx context.Context) error {
	existing, err := a.stores.plans.List(ctx)
	if err != nil {
		return fmt.Errorf("list plans: %w", err)
	}
	if len(existing) == 0 {
		for _, p := range plan.Defaults() {
			if err := a.stores.plans.Create(ctx, p); err != nil {
				return fmt.Errorf("seed plan %s: %w", p.ID, err)
			}
		}
		a.Logger.Info().Int("count", len(plan.Defaults())).Msg("seeded default plans")
	}

	admin := a.Config.Admin
	if admin.Username == "" || admin.Password == "" {
		return nil
	}
	if _, err := a.stores.users.GetByUsername(ctx, admin.Username); err == nil {
		return nil
	} else if !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("check admin account: %w", err)
	}

	bcryptHasher := hasher.NewBcrypt(0)
	hash, err := bcryptHasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	email := admin.Email
	if email == "" {
		email = admin.Username + "@localhost"
	}
	if err := a.stores.users.Create(ctx, ports.User{
		ID:            idgen.UUID{}.New(),
		Username:      admin.Username,
		Email:         email,
		FullName:      "Administrator",
		PasswordHash:  hash,
		PlanID:        plan.FreeID,
		PaymentStatus: account.PaymentPaid,
		IsActive:      true,
		JoinedAt:      time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}
	a.Logger.Info().Str("username", admin.Username).Msg("seeded admin account")
	return nil
}

func (a *App) initServices() error {
	cfg := a.Config
	clk := clock.Real{}
	idGen := idgen.UUID{}
	bcryptHasher := hasher.NewBcrypt(0)

	a.limiter = app.NewRateLimiter(a.stores.rates, clk, ratelimit.Config{
		MaxRequests: cfg.RateLimit.MaxRequests,
		WindowSecs:  cfg.RateLimit.WindowSecs,
	}, a.Logger)

	a.Accountant = app.NewAccountant(a.stores.usage, clk, idGen)

	humanizer, err := textservice.NewHumanizer(textservice.HumanizerConfig{
		BaseURL: cfg.Humanizer.URL,
		Timeout: cfg.Humanizer.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create humanizer client: %w", err)
	}
	detector, err := textservice.NewDetector(textservice.DetectorConfig{
		BaseURL: cfg.Detector.URL,
		APIKey:  cfg.Detector.APIKey,
		Timeout: cfg.Detector.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create detector client: %w", err)
	}

	a.Account = app.NewAccountService(app.AccountDeps{
		Users:  a.stores.users,
		Plans:  a.stores.plans,
		Hasher: bcryptHasher,
		Clock:  clk,
		IDGen:  idGen,
	}, app.AccountConfig{
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	})

	a.Text = app.NewTextService(app.TextDeps{
		Users:      a.stores.users,
		Plans:      a.stores.plans,
		APILogs:    a.stores.apiLogs,
		Limiter:    a.limiter,
		Accountant: a.Accountant,
		Humanizer:  humanizer,
		Detector:   detector,
		Clock:      clk,
		IDGen:      idGen,
		Metrics:    a.Metrics,
		Log:        a.Logger,
	})

	a.Payments = app.NewPaymentService(app.PaymentDeps{
		Users: a.stores.users,
		Plans: a.stores.plans,
		Txs:   a.stores.txs,
		Provider: payment.NewMpesa(payment.MpesaConfig{
			BaseURL:        cfg.Mpesa.BaseURL,
			ConsumerKey:    cfg.Mpesa.ConsumerKey,
			ConsumerSecret: cfg.Mpesa.ConsumerSecret,
			ShortCode:      cfg.Mpesa.ShortCode,
			Passkey:        cfg.Mpesa.Passkey,
			CallbackURL:    cfg.Mpesa.CallbackURL,
		}, clk),
		Clock: clk,
		IDGen: idGen,
		Log:   a.Logger,
	})

	a.Stats = app.NewStatsService(app.StatsDeps{
		Users:               a.stores.users,
		Txs:                 a.stores.txs,
		Usage:               a.stores.usage,
		APILogs:             a.stores.apiLogs,
		Clock:               clk,
		HumanizerConfigured: cfg.Humanizer.URL != "",
		DetectorConfigured:  detector.Configured(),
	})

	return nil
}

func (a *App) initHTTPServer() {
	cfg := a.Config

	var pinger web.Pinger
	if a.DB != nil {
		pinger = a.DB
	}

	handler := web.NewHandler(web.Deps{
		Account:             a.Account,
		Text:                a.Text,
		Payments:            a.Payments,
		Stats:               a.Stats,
		Accountant:          a.Accountant,
		Users:               a.stores.users,
		Plans:               a.stores.plans,
		DB:                  pinger,
		Metrics:             a.Metrics,
		Logger:              a.Logger,
		AdminUsername:       cfg.Admin.Username,
		HumanizerConfigured: cfg.Humanizer.URL != "",
		EnableOpenAPI:       cfg.OpenAPI.Enabled,
		EnableMetrics:       cfg.Metrics.Enabled,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	a.Logger.Info().Str("addr", addr).Msg("http server configured")
}

// wireReload applies hot-reloadable config fields when the holder
// notices a change.
func (a *App) wireReload() {
	if a.Holder == nil {
		return
	}
	a.Holder.OnChange(func(cfg *config.Config) {
		a.limiter.UpdateConfig(ratelimit.Config{
			MaxRequests: cfg.RateLimit.MaxRequests,
			WindowSecs:  cfg.RateLimit.WindowSecs,
		})
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
			a.Metrics.ConfigLastReload.Set(float64(time.Now().Unix()))
		}
	})
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	if a.Holder != nil {
		if err := a.Holder.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watch unavailable")
		}
		a.Holder.WatchSignals()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Holder != nil {
		a.Holder.Stop()
	}
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

// SetupLogger builds the process logger from config.
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
