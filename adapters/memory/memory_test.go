package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andikar-ai/gateway/adapters/memory"
	"github.com/andikar-ai/gateway/domain/usage"
	"github.com/andikar-ai/gateway/ports"
)

// RateLimitStore tests

func TestRateLimitStore_PutGet(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()

	err := store.Put(ctx, "key1", []float64{10, 11, 12}, 12)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if len(got.Timestamps) != 3 {
		t.Errorf("len = %d, want 3", len(got.Timestamps))
	}
	if got.LastUpdated != 12 {
		t.Errorf("LastUpdated = %v, want 12", got.LastUpdated)
	}
}

func TestRateLimitStore_Get_Unseen(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()

	rec, err := store.Get(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// Should return zero record
	if len(rec.Timestamps) != 0 {
		t.Errorf("expected empty timestamps for unseen key")
	}
}

func TestRateLimitStore_CopyIsolation(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()

	ts := []float64{1, 2}
	store.Put(ctx, "key1", ts, 2)

	// Mutating the caller slice must not affect the stored record
	ts[0] = 99

	got, _ := store.Get(ctx, "key1")
	if got.Timestamps[0] != 1 {
		t.Errorf("Timestamps[0] = %v, want 1", got.Timestamps[0])
	}

	// Mutating the returned slice must not affect the next read
	got.Timestamps[1] = 99
	again, _ := store.Get(ctx, "key1")
	if again.Timestamps[1] != 2 {
		t.Errorf("Timestamps[1] = %v, want 2", again.Timestamps[1])
	}
}

func TestRateLimitStore_Clear(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()

	store.Put(ctx, "key1", []float64{1}, 1)
	store.Put(ctx, "key2", []float64{2}, 2)

	store.Clear()

	rec, _ := store.Get(ctx, "key1")
	if len(rec.Timestamps) != 0 {
		t.Errorf("expected empty record after Clear, got %v", rec.Timestamps)
	}
}

// UsageStore tests

func TestUsageStore_UpsertGet(t *testing.T) {
	store := memory.NewUsageStore()
	ctx := context.Background()

	day := usage.Day{Year: 2025, Month: 3, Day: 15}
	stat := usage.Stat{
		ID:               "stat-1",
		UserID:           "user-1",
		Date:             day,
		HumanizeRequests: 2,
		WordsProcessed:   120,
		UpdatedAt:        time.Now().UTC(),
	}

	if err := store.Upsert(ctx, stat); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "user-1", day)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.WordsProcessed != 120 {
		t.Errorf("WordsProcessed = %d, want 120", got.WordsProcessed)
	}
}

func TestUsageStore_Get_NotFound(t *testing.T) {
	store := memory.NewUsageStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "user-1", usage.Day{Year: 2025, Month: 1, Day: 1})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsageStore_ListRange(t *testing.T) {
	store := memory.NewUsageStore()
	ctx := context.Background()

	days := []usage.Day{
		{Year: 2025, Month: 2, Day: 27},
		{Year: 2025, Month: 2, Day: 28},
		{Year: 2025, Month: 3, Day: 1},
	}
	for i, d := range days {
		store.Upsert(ctx, usage.Stat{
			ID:     "stat-" + string(rune('a'+i)),
			UserID: "user-1",
			Date:   d,
		})
	}

	stats, err := store.ListRange(ctx,
		usage.Day{Year: 2025, Month: 2, Day: 28},
		usage.Day{Year: 2025, Month: 3, Day: 1})
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}
	if stats[0].Date.String() != "2025-02-28" {
		t.Errorf("first day = %s", stats[0].Date.String())
	}
}

// UserStore tests

func TestUserStore_CreateGetUpdate(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	u := ports.User{
		ID:            "user-1",
		Username:      "alice",
		Email:         "alice@example.com",
		PlanID:        "free",
		PaymentStatus: "Pending",
		IsActive:      true,
	}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID = %s, want user-1", got.ID)
	}

	u.PlanID = "premium"
	if err := store.Update(ctx, u); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ = store.Get(ctx, "user-1")
	if got.PlanID != "premium" {
		t.Errorf("PlanID = %s, want premium", got.PlanID)
	}
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	store.Create(ctx, ports.User{ID: "user-1", Username: "bob", Email: "bob@example.com"})
	err := store.Create(ctx, ports.User{ID: "user-2", Username: "bob", Email: "bob2@example.com"})
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}
}

func TestUserStore_AddWordsUsed(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	store.Create(ctx, ports.User{ID: "user-1", Username: "carol", Email: "carol@example.com"})

	if err := store.AddWordsUsed(ctx, "user-1", 40); err != nil {
		t.Fatalf("AddWordsUsed failed: %v", err)
	}
	if err := store.AddWordsUsed(ctx, "user-1", 10); err != nil {
		t.Fatalf("AddWordsUsed failed: %v", err)
	}

	got, _ := store.Get(ctx, "user-1")
	if got.WordsUsed != 50 {
		t.Errorf("WordsUsed = %d, want 50", got.WordsUsed)
	}
}

// TransactionStore tests

func TestTransactionStore_Lifecycle(t *testing.T) {
	store := memory.NewTransactionStore()
	ctx := context.Background()

	now := time.Now().UTC()
	tx := ports.Transaction{
		ID:        "tx-1",
		UserID:    "user-1",
		Amount:    9.99,
		Currency:  "KES",
		Method:    "mpesa",
		Status:    "pending",
		Reference: "ws_CO_1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Create(ctx, tx); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByReference(ctx, "ws_CO_1")
	if err != nil {
		t.Fatalf("GetByReference failed: %v", err)
	}
	if got.ID != "tx-1" {
		t.Errorf("ID = %s, want tx-1", got.ID)
	}

	if err := store.UpdateStatus(ctx, "tx-1", "completed", now.Add(time.Second)); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	got, _ = store.Get(ctx, "tx-1")
	if got.Status != "completed" {
		t.Errorf("Status = %s, want completed", got.Status)
	}
}

// APILogStore tests

func TestAPILogStore_RecordAndCount(t *testing.T) {
	store := memory.NewAPILogStore()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, ep := range []string{"/api/humanize", "/api/detect", "/api/humanize"} {
		store.Record(ctx, ports.APILog{
			ID:        "log-" + string(rune('a'+i)),
			UserID:    "user-1",
			Endpoint:  ep,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	counts, err := store.CountByEndpoint(ctx)
	if err != nil {
		t.Fatalf("CountByEndpoint failed: %v", err)
	}
	if counts["/api/humanize"] != 2 {
		t.Errorf("humanize count = %d, want 2", counts["/api/humanize"])
	}

	logs, err := store.RecentByUser(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("RecentByUser failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len = %d, want 2", len(logs))
	}
}
