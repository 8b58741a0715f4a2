package usage_test

import (
	"math"
	"testing"
	"time"

	"github.com/andikar-ai/gateway/domain/usage"
)

var now = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func TestApply_Additivity(t *testing.T) {
	s := usage.Stat{UserID: "u1", Date: usage.DayOf(now)}

	words := []int{50, 30, 20}
	times := []float64{0.2, 0.1, 0.35}
	for i := range words {
		s = usage.Apply(s, usage.KindHumanize, words[i], times[i], now)
	}

	if s.HumanizeRequests != 3 {
		t.Errorf("humanizeRequests = %d, want 3", s.HumanizeRequests)
	}
	if s.WordsProcessed != 100 {
		t.Errorf("wordsProcessed = %d, want 100", s.WordsProcessed)
	}
	if math.Abs(s.TotalProcessingTime-0.65) > 1e-9 {
		t.Errorf("totalProcessingTime = %v, want 0.65", s.TotalProcessingTime)
	}
}

func TestApply_MixedKinds(t *testing.T) {
	s := usage.Stat{UserID: "u1", Date: usage.DayOf(now)}

	s = usage.Apply(s, usage.KindHumanize, 50, 0.2, now)
	s = usage.Apply(s, usage.KindDetect, 30, 0.1, now)

	if s.HumanizeRequests != 1 || s.DetectRequests != 1 {
		t.Errorf("requests = %d/%d, want 1/1", s.HumanizeRequests, s.DetectRequests)
	}
	if s.WordsProcessed != 80 {
		t.Errorf("wordsProcessed = %d, want 80", s.WordsProcessed)
	}
	if math.Abs(s.TotalProcessingTime-0.3) > 1e-9 {
		t.Errorf("totalProcessingTime = %v, want 0.3", s.TotalProcessingTime)
	}
	if s.TotalRequests() != 2 {
		t.Errorf("totalRequests = %d, want 2", s.TotalRequests())
	}
	if !s.UpdatedAt.Equal(now) {
		t.Errorf("updatedAt = %v, want %v", s.UpdatedAt, now)
	}
}

func TestDayOf_UsesUTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	local := time.Date(2025, 3, 10, 23, 30, 0, 0, loc)

	d := usage.DayOf(local)
	if d != (usage.Day{Year: 2025, Month: 3, Day: 11}) {
		t.Errorf("day = %v, want 2025-03-11", d)
	}
}

func TestDay_EqualityPartitionsDays(t *testing.T) {
	d1 := usage.DayOf(now)
	d2 := usage.DayOf(now.AddDate(0, 0, 1))

	if d1 == d2 {
		t.Fatal("distinct days must not compare equal")
	}

	// Records keyed by Day stay independent.
	byDay := map[usage.Day]usage.Stat{}
	byDay[d1] = usage.Apply(byDay[d1], usage.KindHumanize, 10, 0.1, now)
	byDay[d2] = usage.Apply(byDay[d2], usage.KindHumanize, 99, 0.9, now)

	if byDay[d1].WordsProcessed != 10 || byDay[d2].WordsProcessed != 99 {
		t.Errorf("cross-day leakage: %v / %v", byDay[d1], byDay[d2])
	}
}

func TestDay_String(t *testing.T) {
	d := usage.Day{Year: 2025, Month: 3, Day: 5}
	if got := d.String(); got != "2025-03-05" {
		t.Errorf("String() = %q, want 2025-03-05", got)
	}
}

func TestDay_NextCrossesMonthEnd(t *testing.T) {
	d := usage.Day{Year: 2025, Month: 2, Day: 28}
	if got := d.Next(); got != (usage.Day{Year: 2025, Month: 3, Day: 1}) {
		t.Errorf("next = %v, want 2025-03-01", got)
	}
}
