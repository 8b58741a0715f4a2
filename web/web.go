// Package web provides the HTTP API for the gateway.
package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/andikar-ai/gateway/adapters/metrics"
	"github.com/andikar-ai/gateway/app"
	_ "github.com/andikar-ai/gateway/docs/swagger" // swagger docs
	"github.com/andikar-ai/gateway/ports"
)

// Pinger checks database liveness.
type Pinger interface {
	Ping() error
}

// Handler provides the gateway's JSON API endpoints.
type Handler struct {
	account       *app.AccountService
	text          *app.TextService
	payments      *app.PaymentService
	stats         *app.StatsService
	accountant    *app.Accountant
	users         ports.UserStore
	plans         ports.PlanStore
	db            Pinger
	metrics       *metrics.Collector
	logger        zerolog.Logger
	adminUsername string
	humanizerOK   bool
	openAPI       bool
	metricsOn     bool
	startTime     time.Time
}

// Deps contains dependencies for the handler.
type Deps struct {
	Account    *app.AccountService
	Text       *app.TextService
	Payments   *app.PaymentService
	Stats      *app.StatsService
	Accountant *app.Accountant
	Users      ports.UserStore
	Plans      ports.PlanStore
	DB         Pinger
	Metrics    *metrics.Collector
	Logger     zerolog.Logger

	// AdminUsername gates the /admin endpoints. Empty disables them.
	AdminUsername string

	// HumanizerConfigured is reported by /health.
	HumanizerConfigured bool

	// EnableOpenAPI mounts the Swagger UI under /docs.
	EnableOpenAPI bool

	// EnableMetrics mounts promhttp under /metrics.
	EnableMetrics bool
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		account:       deps.Account,
		text:          deps.Text,
		payments:      deps.Payments,
		stats:         deps.Stats,
		accountant:    deps.Accountant,
		users:         deps.Users,
		plans:         deps.Plans,
		db:            deps.DB,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		adminUsername: deps.AdminUsername,
		humanizerOK:   deps.HumanizerConfigured,
		openAPI:       deps.EnableOpenAPI,
		metricsOn:     deps.EnableMetrics,
		startTime:     time.Now(),
	}
}

// Router builds the main HTTP router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if h.metrics != nil {
		r.Use(NewMetricsMiddleware(h.metrics))
	}

	// Public endpoints
	r.Get("/health", h.Health)
	r.Get("/status", h.Status)
	r.Get("/version", h.Version)
	r.Post("/token", h.Token)
	r.Post("/users/register", h.Register)

	// Payment provider callbacks carry their own reference check,
	// not a user token.
	r.Post("/api/payments/mpesa/callback", h.PaymentCallback)

	if h.metricsOn {
		r.Handle("/metrics", promhttp.Handler())
	}
	if h.openAPI {
		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/doc.json"),
		))
	}

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Get("/users/me", h.Me)
		r.Put("/users/me", h.UpdateMe)

		r.Post("/api/humanize", h.Humanize)
		r.Post("/api/detect", h.Detect)

		r.Post("/api/payments/mpesa/initiate", h.InitiatePayment)
		r.Get("/api/transactions", h.Transactions)
		r.Get("/api/usage", h.Usage)
	})

	// Admin endpoints
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)
		r.Use(h.AdminOnly)

		r.Get("/admin/users", h.AdminUsers)
		r.Get("/admin/transactions", h.AdminTransactions)
		r.Get("/admin/stats", h.AdminStats)
	})

	return r
}

// AuthMiddleware validates the bearer token and loads the account into
// the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			h.countAuthFailure("missing_token")
			writeUnauthorized(w, "missing_token", "Authorization header with bearer token is required")
			return
		}

		user, err := h.account.VerifyToken(r.Context(), token)
		if err != nil {
			h.countAuthFailure("invalid_token")
			writeUnauthorized(w, "invalid_token", "The provided token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// AdminOnly restricts the route to the configured admin account.
func (h *Handler) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFrom(r.Context())
		if !ok || h.adminUsername == "" || user.Username != h.adminUsername {
			writeForbidden(w, "admin_only", "This endpoint requires administrator access")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) countAuthFailure(reason string) {
	if h.metrics != nil {
		h.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

// extractBearer pulls the token from the Authorization header.
func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// requestMeta builds the transport metadata recorded with each text
// operation. The rate-limit key prefers the API key header over the
// client IP.
func requestMeta(r *http.Request) app.RequestMeta {
	ip := extractIP(r)
	key := r.Header.Get("X-API-Key")
	if key == "" {
		key = ip
	}
	return app.RequestMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
		RateKey:   key,
	}
}

// extractIP extracts the client IP from the request.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

// NewMetricsMiddleware creates middleware that records request metrics.
func NewMetricsMiddleware(m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" ||
				strings.HasPrefix(r.URL.Path, "/docs") {
				next.ServeHTTP(w, r)
				return
			}

			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := statusLabel(ww.Status())
			path := metrics.NormalizePath(r.URL.Path)

			m.RequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			m.RequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		})
	}
}

// statusLabel returns a string label for the status code.
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// NewLoggingMiddleware logs HTTP requests.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

// context helpers

type ctxKey string

const userKey ctxKey = "user"

func withUser(ctx context.Context, user ports.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func userFrom(ctx context.Context) (ports.User, bool) {
	user, ok := ctx.Value(userKey).(ports.User)
	return user, ok
}
