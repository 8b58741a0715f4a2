package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andikar-ai/gateway/adapters/metrics"
	"github.com/andikar-ai/gateway/domain/account"
	"github.com/andikar-ai/gateway/domain/detect"
	"github.com/andikar-ai/gateway/domain/plan"
	"github.com/andikar-ai/gateway/domain/usage"
	"github.com/andikar-ai/gateway/ports"
)

// Service errors surfaced to the transport layer.
var (
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// AccessError reports why a request was refused before reaching the
// external service.
type AccessError struct {
	Reason string
}

func (e *AccessError) Error() string { return e.Reason }

// RequestMeta carries transport details recorded in the API log. RateKey
// selects the rate-limit bucket (API key header when present, client IP
// otherwise); when empty the user ID is used.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	RateKey   string
}

// HumanizeResult is the outcome of a humanize operation.
type HumanizeResult struct {
	OriginalText   string  `json:"original_text"`
	HumanizedText  string  `json:"humanized_text"`
	WordCount      int     `json:"word_count"`
	WordsRemaining int     `json:"words_remaining"`
	ProcessingTime float64 `json:"processing_time"`
}

// DetectResult is the outcome of a detect operation.
type DetectResult struct {
	detect.Result
	WordCount      int     `json:"word_count"`
	ProcessingTime float64 `json:"processing_time"`
	Source         string  `json:"source"`
}

// Detection result sources.
const (
	SourceExternal  = "external"
	SourceHeuristic = "heuristic"
)

// TextService orchestrates the humanize and detect operations: rate
// limiting, plan access checks, the external call, then accounting.
type TextService struct {
	users      ports.UserStore
	plans      ports.PlanStore
	apiLogs    ports.APILogStore
	limiter    *RateLimiter
	accountant *Accountant
	humanizer  ports.Humanizer
	detector   ports.Detector
	clock      ports.Clock
	idGen      ports.IDGenerator
	metrics    *metrics.Collector
	log        zerolog.Logger
}

// TextDeps contains dependencies for TextService.
type TextDeps struct {
	Users      ports.UserStore
	Plans      ports.PlanStore
	APILogs    ports.APILogStore
	Limiter    *RateLimiter
	Accountant *Accountant
	Humanizer  ports.Humanizer
	Detector   ports.Detector
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Metrics    *metrics.Collector
	Log        zerolog.Logger
}

// NewTextService creates a new text service.
func NewTextService(deps TextDeps) *TextService {
	return &TextService{
		users:      deps.Users,
		plans:      deps.Plans,
		apiLogs:    deps.APILogs,
		limiter:    deps.Limiter,
		accountant: deps.Accountant,
		humanizer:  deps.Humanizer,
		detector:   deps.Detector,
		clock:      deps.Clock,
		idGen:      deps.IDGen,
		metrics:    deps.Metrics,
		log:        deps.Log,
	}
}

// Humanize runs a user's text through the external humanizer. The rate
// limit is checked before any work, plan access before the external
// call, and usage accounted only after the call succeeds.
func (s *TextService) Humanize(ctx context.Context, userID, text string, meta RequestMeta) (HumanizeResult, error) {
	if res := s.limiter.Allow(ctx, s.rateKey(userID, meta)); !res.Allowed {
		s.countRateLimit(false)
		return HumanizeResult{}, ErrRateLimited
	}
	s.countRateLimit(true)

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return HumanizeResult{}, fmt.Errorf("load user: %w", err)
	}

	wordCount := account.WordCount(text)
	p, planFound, err := s.userPlan(ctx, user)
	if err != nil {
		return HumanizeResult{}, err
	}

	if access := account.CheckAccess(user.IsActive, user.PaymentStatus, p, planFound, user.WordsUsed, wordCount); !access.Allowed {
		return HumanizeResult{}, &AccessError{Reason: access.Reason}
	}

	start := s.clock.Now()
	humanized, err := s.humanizer.Humanize(ctx, text)
	elapsed := s.clock.Now().Sub(start).Seconds()
	s.observeService("humanizer", elapsed, err)

	if err != nil {
		// The failed call is logged but never billed.
		s.recordLog(ctx, user.ID, "/api/humanize", len(text), 0, elapsed, 503, err.Error(), meta)
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("humanizer call failed")
		return HumanizeResult{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if _, err := s.accountant.Record(ctx, user.ID, usage.KindHumanize, wordCount, elapsed); err != nil {
		return HumanizeResult{}, err
	}
	if err := s.users.AddWordsUsed(ctx, user.ID, wordCount); err != nil {
		return HumanizeResult{}, fmt.Errorf("update words used: %w", err)
	}
	s.countUsage(usage.KindHumanize, wordCount)

	s.recordLog(ctx, user.ID, "/api/humanize", len(text), len(humanized), elapsed, 200, "", meta)

	remaining := 0
	if planFound {
		remaining = p.WordsRemaining(user.WordsUsed + wordCount)
	}

	return HumanizeResult{
		OriginalText:   text,
		HumanizedText:  humanized,
		WordCount:      wordCount,
		WordsRemaining: remaining,
		ProcessingTime: elapsed,
	}, nil
}

// Detect scores a user's text for AI authorship. When no external
// detection service is configured, or when it fails, the local
// heuristic scorer is used instead.
func (s *TextService) Detect(ctx context.Context, userID, text string, meta RequestMeta) (DetectResult, error) {
	if res := s.limiter.Allow(ctx, s.rateKey(userID, meta)); !res.Allowed {
		s.countRateLimit(false)
		return DetectResult{}, ErrRateLimited
	}
	s.countRateLimit(true)

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return DetectResult{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return DetectResult{}, &AccessError{Reason: account.ReasonInactive}
	}

	wordCount := account.WordCount(text)
	start := s.clock.Now()

	var result detect.Result
	source := SourceHeuristic
	if s.detector != nil && s.detector.Configured() {
		result, err = s.detector.Detect(ctx, text)
		elapsed := s.clock.Now().Sub(start).Seconds()
		s.observeService("detector", elapsed, err)
		if err != nil {
			s.log.Warn().Err(err).Msg("detector call failed, falling back to local scoring")
			result = detect.Score(text)
		} else {
			source = SourceExternal
		}
	} else {
		result = detect.Score(text)
	}
	elapsed := s.clock.Now().Sub(start).Seconds()

	if _, err := s.accountant.Record(ctx, user.ID, usage.KindDetect, wordCount, elapsed); err != nil {
		return DetectResult{}, err
	}
	s.countUsage(usage.KindDetect, wordCount)

	s.recordLog(ctx, user.ID, "/api/detect", len(text), 0, elapsed, 200, "", meta)

	return DetectResult{
		Result:         result,
		WordCount:      wordCount,
		ProcessingTime: elapsed,
		Source:         source,
	}, nil
}

// DetectorConfigured reports whether an external detection service is
// wired in.
func (s *TextService) DetectorConfigured() bool {
	return s.detector != nil && s.detector.Configured()
}

func (s *TextService) rateKey(userID string, meta RequestMeta) string {
	if meta.RateKey != "" {
		return meta.RateKey
	}
	return userID
}

func (s *TextService) userPlan(ctx context.Context, user ports.User) (plan.Plan, bool, error) {
	p, err := s.plans.Get(ctx, user.PlanID)
	if errors.Is(err, ports.ErrNotFound) {
		return plan.Plan{}, false, nil
	}
	if err != nil {
		return plan.Plan{}, false, fmt.Errorf("load plan: %w", err)
	}
	return p, true, nil
}

func (s *TextService) recordLog(ctx context.Context, userID, endpoint string, reqSize, respSize int, elapsed float64, status int, errMsg string, meta RequestMeta) {
	entry := ports.APILog{
		ID:             s.idGen.New(),
		UserID:         userID,
		Endpoint:       endpoint,
		RequestSize:    reqSize,
		ResponseSize:   respSize,
		ProcessingTime: elapsed,
		StatusCode:     status,
		Error:          errMsg,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
		Timestamp:      s.clock.Now().UTC(),
	}
	if err := s.apiLogs.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("endpoint", endpoint).Msg("api log write failed")
	}
}

func (s *TextService) countRateLimit(allowed bool) {
	if s.metrics == nil {
		return
	}
	if allowed {
		s.metrics.RateLimitAllowed.WithLabelValues("user").Inc()
	} else {
		s.metrics.RateLimitHits.WithLabelValues("user").Inc()
	}
}

func (s *TextService) countUsage(kind usage.Kind, words int) {
	if s.metrics == nil {
		return
	}
	s.metrics.UsageRequests.WithLabelValues(string(kind)).Inc()
	s.metrics.UsageWords.WithLabelValues(string(kind)).Add(float64(words))
}

func (s *TextService) observeService(name string, elapsed float64, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ServiceDuration.WithLabelValues(name).Observe(elapsed)
	if err != nil {
		s.metrics.ServiceErrors.WithLabelValues(name).Inc()
	}
}
