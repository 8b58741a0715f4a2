package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/andikar-ai/gateway/adapters/clock"
	"github.com/andikar-ai/gateway/adapters/idgen"
	"github.com/andikar-ai/gateway/adapters/memory"
	"github.com/andikar-ai/gateway/app"
	"github.com/andikar-ai/gateway/domain/account"
	"github.com/andikar-ai/gateway/domain/detect"
	"github.com/andikar-ai/gateway/domain/plan"
	"github.com/andikar-ai/gateway/domain/ratelimit"
	"github.com/andikar-ai/gateway/domain/usage"
	"github.com/andikar-ai/gateway/ports"
)

type fakeHumanizer struct {
	out   string
	err   error
	calls int
}

func (f *fakeHumanizer) Humanize(ctx context.Context, text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeDetector struct {
	configured bool
	result     detect.Result
	err        error
	calls      int
}

func (f *fakeDetector) Configured() bool { return f.configured }

func (f *fakeDetector) Detect(ctx context.Context, text string) (detect.Result, error) {
	f.calls++
	if f.err != nil {
		return detect.Result{}, f.err
	}
	return f.result, nil
}

func (f *fakeDetector) Ping(ctx context.Context) error { return f.err }

type textFixture struct {
	svc       *app.TextService
	users     *memory.UserStore
	usage     *memory.UsageStore
	apiLogs   *memory.APILogStore
	humanizer *fakeHumanizer
	detector  *fakeDetector
	clk       *clock.Fake
}

func newTextFixture(t *testing.T, maxRequests int) *textFixture {
	t.Helper()

	clk := clock.NewFake(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	users := memory.NewUserStore()
	plans := memory.NewPlanStore()
	usageStore := memory.NewUsageStore()
	apiLogs := memory.NewAPILogStore()
	idGen := idgen.NewSequential("id-")
	ctx := context.Background()

	for _, p := range plan.Defaults() {
		if err := plans.Create(ctx, p); err != nil {
			t.Fatalf("seed plan: %v", err)
		}
	}
	if err := users.Create(ctx, ports.User{
		ID:            "user-1",
		Username:      "alice",
		Email:         "alice@example.com",
		PlanID:        plan.FreeID,
		PaymentStatus: account.PaymentPending,
		IsActive:      true,
		JoinedAt:      clk.Now(),
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	limiter := app.NewRateLimiter(memory.NewRateLimitStore(), clk, ratelimit.Config{
		MaxRequests: maxRequests,
		WindowSecs:  60,
	}, zerolog.Nop())

	humanizer := &fakeHumanizer{out: "humanized output"}
	detector := &fakeDetector{}

	svc := app.NewTextService(app.TextDeps{
		Users:      users,
		Plans:      plans,
		APILogs:    apiLogs,
		Limiter:    limiter,
		Accountant: app.NewAccountant(usageStore, clk, idGen),
		Humanizer:  humanizer,
		Detector:   detector,
		Clock:      clk,
		IDGen:      idGen,
		Log:        zerolog.Nop(),
	})

	return &textFixture{
		svc:       svc,
		users:     users,
		usage:     usageStore,
		apiLogs:   apiLogs,
		humanizer: humanizer,
		detector:  detector,
		clk:       clk,
	}
}

func (f *textFixture) todayStat(t *testing.T) usage.Stat {
	t.Helper()
	stat, err := f.usage.Get(context.Background(), "user-1", usage.DayOf(f.clk.Now()))
	if err != nil {
		t.Fatalf("get stat: %v", err)
	}
	return stat
}

func TestTextService_HumanizeSuccess(t *testing.T) {
	f := newTextFixture(t, 10)
	ctx := context.Background()

	got, err := f.svc.Humanize(ctx, "user-1", "one two three four five", app.RequestMeta{IPAddress: "127.0.0.1"})
	if err != nil {
		t.Fatalf("humanize: %v", err)
	}

	if got.HumanizedText != "humanized output" {
		t.Errorf("HumanizedText = %q", got.HumanizedText)
	}
	if got.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", got.WordCount)
	}
	if got.WordsRemaining != 995 {
		t.Errorf("WordsRemaining = %d, want 995", got.WordsRemaining)
	}

	stat := f.todayStat(t)
	if stat.HumanizeRequests != 1 || stat.WordsProcessed != 5 {
		t.Errorf("stat = %+v", stat)
	}

	user, _ := f.users.Get(ctx, "user-1")
	if user.WordsUsed != 5 {
		t.Errorf("WordsUsed = %d, want 5", user.WordsUsed)
	}

	logs := f.apiLogs.All()
	if len(logs) != 1 {
		t.Fatalf("log count = %d, want 1", len(logs))
	}
	if logs[0].Endpoint != "/api/humanize" || logs[0].StatusCode != 200 {
		t.Errorf("log = %+v", logs[0])
	}
}

func TestTextService_HumanizeRateLimited(t *testing.T) {
	f := newTextFixture(t, 1)
	ctx := context.Background()

	if _, err := f.svc.Humanize(ctx, "user-1", "hello world", app.RequestMeta{}); err != nil {
		t.Fatalf("first humanize: %v", err)
	}

	_, err := f.svc.Humanize(ctx, "user-1", "hello world", app.RequestMeta{})
	if !errors.Is(err, app.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// Only the first, admitted request reached the service or the books.
	if f.humanizer.calls != 1 {
		t.Errorf("humanizer calls = %d, want 1", f.humanizer.calls)
	}
	stat := f.todayStat(t)
	if stat.HumanizeRequests != 1 {
		t.Errorf("HumanizeRequests = %d, want 1", stat.HumanizeRequests)
	}
}

func TestTextService_HumanizeServiceFailure(t *testing.T) {
	f := newTextFixture(t, 10)
	f.humanizer.err = errors.New("connection refused")
	ctx := context.Background()

	_, err := f.svc.Humanize(ctx, "user-1", "hello world", app.RequestMeta{})
	if !errors.Is(err, app.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}

	// Failed calls are logged but never billed.
	if _, err := f.usage.Get(ctx, "user-1", usage.DayOf(f.clk.Now())); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected no usage stat, got err %v", err)
	}
	user, _ := f.users.Get(ctx, "user-1")
	if user.WordsUsed != 0 {
		t.Errorf("WordsUsed = %d, want 0", user.WordsUsed)
	}

	logs := f.apiLogs.All()
	if len(logs) != 1 {
		t.Fatalf("log count = %d, want 1", len(logs))
	}
	if logs[0].StatusCode != 503 || logs[0].Error == "" {
		t.Errorf("log = %+v", logs[0])
	}
}

func TestTextService_HumanizeAccessDenied(t *testing.T) {
	f := newTextFixture(t, 10)
	ctx := context.Background()

	// Inactive account
	user, _ := f.users.Get(ctx, "user-1")
	user.IsActive = false
	f.users.Update(ctx, user)

	_, err := f.svc.Humanize(ctx, "user-1", "hello", app.RequestMeta{})
	var accessErr *app.AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected AccessError, got %v", err)
	}
	if accessErr.Reason != account.ReasonInactive {
		t.Errorf("Reason = %s, want %s", accessErr.Reason, account.ReasonInactive)
	}

	// Paid plan awaiting payment
	user.IsActive = true
	user.PlanID = "premium"
	f.users.Update(ctx, user)

	_, err = f.svc.Humanize(ctx, "user-1", "hello", app.RequestMeta{})
	if !errors.As(err, &accessErr) || accessErr.Reason != account.ReasonPaymentRequired {
		t.Fatalf("expected payment_required, got %v", err)
	}

	// Word limit exhausted on the free tier
	user.PlanID = plan.FreeID
	user.WordsUsed = 1000
	f.users.Update(ctx, user)

	_, err = f.svc.Humanize(ctx, "user-1", "hello", app.RequestMeta{})
	if !errors.As(err, &accessErr) || accessErr.Reason != account.ReasonWordLimit {
		t.Fatalf("expected word_limit_exceeded, got %v", err)
	}

	if f.humanizer.calls != 0 {
		t.Errorf("humanizer calls = %d, want 0", f.humanizer.calls)
	}
}

func TestTextService_DetectHeuristic(t *testing.T) {
	f := newTextFixture(t, 10)
	ctx := context.Background()

	got, err := f.svc.Detect(ctx, "user-1", "Furthermore, this is true. Moreover, it holds.", app.RequestMeta{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if got.Source != app.SourceHeuristic {
		t.Errorf("Source = %s, want heuristic", got.Source)
	}
	if got.AIScore != 71.9 {
		t.Errorf("AIScore = %v, want 71.9", got.AIScore)
	}
	if f.detector.calls != 0 {
		t.Errorf("detector calls = %d, want 0", f.detector.calls)
	}

	stat := f.todayStat(t)
	if stat.DetectRequests != 1 {
		t.Errorf("DetectRequests = %d, want 1", stat.DetectRequests)
	}
}

func TestTextService_DetectExternal(t *testing.T) {
	f := newTextFixture(t, 10)
	f.detector.configured = true
	f.detector.result = detect.Result{AIScore: 88.8, HumanScore: 11.2}
	ctx := context.Background()

	got, err := f.svc.Detect(ctx, "user-1", "some text", app.RequestMeta{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if got.Source != app.SourceExternal {
		t.Errorf("Source = %s, want external", got.Source)
	}
	if got.AIScore != 88.8 {
		t.Errorf("AIScore = %v, want 88.8", got.AIScore)
	}
}

func TestTextService_DetectFallbackOnError(t *testing.T) {
	f := newTextFixture(t, 10)
	f.detector.configured = true
	f.detector.err = errors.New("timeout")
	ctx := context.Background()

	got, err := f.svc.Detect(ctx, "user-1", "", app.RequestMeta{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if got.Source != app.SourceHeuristic {
		t.Errorf("Source = %s, want heuristic", got.Source)
	}
	// Empty text falls through to the fixed heuristic scores
	if got.AIScore != 70.0 {
		t.Errorf("AIScore = %v, want 70.0", got.AIScore)
	}
}
