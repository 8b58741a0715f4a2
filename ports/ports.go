// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/andikar-ai/gateway/domain/detect"
	"github.com/andikar-ai/gateway/domain/plan"
	"github.com/andikar-ai/gateway/domain/ratelimit"
	"github.com/andikar-ai/gateway/domain/usage"
)

// Sentinel errors shared across stores and services.
var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned by external text services when they
	// time out or answer with a non-success status.
	ErrUnavailable = errors.New("service unavailable")
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher provides password hashing.
type Hasher interface {
	// Hash generates a hash from a plaintext value.
	Hash(plaintext string) ([]byte, error)

	// Compare checks if plaintext matches hash.
	Compare(hash []byte, plaintext string) bool
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// User represents a registered account.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  []byte
	PlanID        string
	WordsUsed     int
	PaymentStatus string // "Pending" or "Paid"
	IsActive      bool
	JoinedAt      time.Time
}

// UserStore persists user accounts.
type UserStore interface {
	Get(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int, error)

	// AddWordsUsed accumulates processed words onto the account.
	AddWordsUsed(ctx context.Context, id string, delta int) error
}

// PlanStore persists pricing plans.
type PlanStore interface {
	Get(ctx context.Context, id string) (plan.Plan, error)
	List(ctx context.Context) ([]plan.Plan, error)
	Create(ctx context.Context, p plan.Plan) error
	Update(ctx context.Context, p plan.Plan) error
	Delete(ctx context.Context, id string) error
}

// Transaction represents a payment record.
type Transaction struct {
	ID        string
	UserID    string
	Amount    float64
	Currency  string
	Method    string // "mpesa"
	Status    string // "pending", "completed", "failed"
	Reference string // provider checkout/request ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransactionStore persists payment transactions.
type TransactionStore interface {
	Get(ctx context.Context, id string) (Transaction, error)
	GetByReference(ctx context.Context, reference string) (Transaction, error)
	Create(ctx context.Context, tx Transaction) error
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error)
	List(ctx context.Context, limit, offset int) ([]Transaction, error)
}

// APILog records one API call for audit and troubleshooting.
type APILog struct {
	ID             string
	UserID         string
	Endpoint       string
	RequestSize    int
	ResponseSize   int
	ProcessingTime float64 // seconds
	StatusCode     int
	Error          string
	IPAddress      string
	UserAgent      string
	Timestamp      time.Time
}

// APILogStore persists API call logs.
type APILogStore interface {
	Record(ctx context.Context, entry APILog) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]APILog, error)

	// CountByEndpoint returns request counts grouped by endpoint.
	CountByEndpoint(ctx context.Context) (map[string]int, error)
}

// RateLimitStore persists sliding-window rate limit records.
// Get returns a zero-valued record (empty timestamp list) for keys
// that have never been seen.
type RateLimitStore interface {
	Get(ctx context.Context, key string) (ratelimit.Record, error)
	Put(ctx context.Context, key string, timestamps []float64, lastUpdated float64) error
}

// UsageStore persists per-user per-day usage aggregates.
type UsageStore interface {
	// Get retrieves the aggregate for one (user, day) pair.
	// Returns ErrNotFound when no operation has been recorded yet.
	Get(ctx context.Context, userID string, day usage.Day) (usage.Stat, error)

	// Upsert creates or replaces the aggregate row.
	Upsert(ctx context.Context, stat usage.Stat) error

	// ListByUser returns the most recent aggregates for a user.
	ListByUser(ctx context.Context, userID string, limit int) ([]usage.Stat, error)

	// ListRange returns all aggregates between from and to inclusive.
	ListRange(ctx context.Context, from, to usage.Day) ([]usage.Stat, error)
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// Humanizer transforms text via the external humanizer service.
type Humanizer interface {
	// Humanize rewrites text. Failures surface as ErrUnavailable after
	// a bounded timeout.
	Humanize(ctx context.Context, text string) (string, error)
}

// Detector scores text via the external AI detection service.
type Detector interface {
	// Configured reports whether a real endpoint is set. A placeholder
	// URL counts as not configured and triggers the local heuristic.
	Configured() bool

	// Detect scores text. Failures surface as ErrUnavailable.
	Detect(ctx context.Context, text string) (detect.Result, error)

	// Ping probes service liveness with a short timeout.
	Ping(ctx context.Context) error
}

// PaymentRequest describes an M-Pesa STK push to initiate.
type PaymentRequest struct {
	PhoneNumber      string
	Amount           float64
	AccountReference string
	Description      string
}

// PaymentResponse is the provider's answer to an initiation request.
type PaymentResponse struct {
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// PaymentStatus is the provider's answer to a status query.
type PaymentStatus struct {
	ResultCode        string
	ResultDescription string
	CheckoutRequestID string
	Amount            float64
	ReceiptNumber     string
	PhoneNumber       string
}

// PaymentProvider interfaces with the payment processor (M-Pesa).
type PaymentProvider interface {
	// Name returns the provider name (e.g. "mpesa").
	Name() string

	// Initiate starts a payment and returns the provider reference.
	Initiate(ctx context.Context, req PaymentRequest) (PaymentResponse, error)

	// QueryStatus checks the state of a previously initiated payment.
	QueryStatus(ctx context.Context, checkoutRequestID string) (PaymentStatus, error)
}
