package app

import (
	"context"
	"fmt"

	"github.com/andikar-ai/gateway/domain/usage"
	"github.com/andikar-ai/gateway/ports"
)

// DailyUsage is one day of aggregated usage across all users.
type DailyUsage struct {
	Date             string  `json:"date"`
	HumanizeRequests int     `json:"humanize_requests"`
	DetectRequests   int     `json:"detect_requests"`
	WordsProcessed   int     `json:"words_processed"`
	ProcessingTime   float64 `json:"processing_time"`
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	TotalUsers          int            `json:"total_users"`
	TotalTransactions   int            `json:"total_transactions"`
	RequestsByEndpoint  map[string]int `json:"requests_by_endpoint"`
	Daily               []DailyUsage   `json:"daily"`
	HumanizerConfigured bool           `json:"humanizer_configured"`
	DetectorConfigured  bool           `json:"detector_configured"`
}

// StatsService aggregates usage for the admin dashboard.
type StatsService struct {
	users   ports.UserStore
	txs     ports.TransactionStore
	usage   ports.UsageStore
	apiLogs ports.APILogStore
	clock   ports.Clock

	humanizerConfigured bool
	detectorConfigured  bool
}

// StatsDeps contains dependencies for StatsService.
type StatsDeps struct {
	Users   ports.UserStore
	Txs     ports.TransactionStore
	Usage   ports.UsageStore
	APILogs ports.APILogStore
	Clock   ports.Clock

	HumanizerConfigured bool
	DetectorConfigured  bool
}

// NewStatsService creates a new stats service.
func NewStatsService(deps StatsDeps) *StatsService {
	return &StatsService{
		users:               deps.Users,
		txs:                 deps.Txs,
		usage:               deps.Usage,
		apiLogs:             deps.APILogs,
		clock:               deps.Clock,
		humanizerConfigured: deps.HumanizerConfigured,
		detectorConfigured:  deps.DetectorConfigured,
	}
}

// Overview builds the dashboard summary covering the last 30 days.
func (s *StatsService) Overview(ctx context.Context) (AdminStats, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return AdminStats{}, fmt.Errorf("count users: %w", err)
	}

	txs, err := s.txs.List(ctx, 1000, 0)
	if err != nil {
		return AdminStats{}, fmt.Errorf("list transactions: %w", err)
	}

	byEndpoint, err := s.apiLogs.CountByEndpoint(ctx)
	if err != nil {
		return AdminStats{}, fmt.Errorf("count api logs: %w", err)
	}

	now := s.clock.Now().UTC()
	to := usage.DayOf(now)
	from := usage.DayOf(now.AddDate(0, 0, -29))

	stats, err := s.usage.ListRange(ctx, from, to)
	if err != nil {
		return AdminStats{}, fmt.Errorf("list usage: %w", err)
	}

	// Collapse per-user rows into one entry per day, preserving the
	// range's ascending order.
	var daily []DailyUsage
	index := make(map[string]int)
	for _, st := range stats {
		date := st.Date.String()
		i, ok := index[date]
		if !ok {
			i = len(daily)
			index[date] = i
			daily = append(daily, DailyUsage{Date: date})
		}
		daily[i].HumanizeRequests += st.HumanizeRequests
		daily[i].DetectRequests += st.DetectRequests
		daily[i].WordsProcessed += st.WordsProcessed
		daily[i].ProcessingTime += st.TotalProcessingTime
	}

	return AdminStats{
		TotalUsers:          userCount,
		TotalTransactions:   len(txs),
		RequestsByEndpoint:  byEndpoint,
		Daily:               daily,
		HumanizerConfigured: s.humanizerConfigured,
		DetectorConfigured:  s.detectorConfigured,
	}, nil
}
