// Package plan provides pricing plan value types and pure helpers.
package plan

import "time"

// Plan represents a subscription tier (value type).
type Plan struct {
	ID             string
	Name           string
	Description    string
	Price          float64
	Currency       string
	BillingCycle   string
	WordLimit      int
	RequestsPerDay int
	Features       []string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FreeID is the plan every new account starts on.
const FreeID = "free"

// IsFree reports whether the plan requires no payment.
func (p Plan) IsFree() bool {
	return p.ID == FreeID || p.Price == 0
}

// Find returns the plan with the given ID.
func Find(plans []Plan, id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// WordsRemaining returns how many words the user may still process
// under this plan. Never negative.
func (p Plan) WordsRemaining(wordsUsed int) int {
	if p.WordLimit <= 0 {
		return 0
	}
	remaining := p.WordLimit - wordsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AllowsWords reports whether processing wordCount more words stays
// within the plan's word budget.
func (p Plan) AllowsWords(wordsUsed, wordCount int) bool {
	if p.WordLimit <= 0 {
		return false
	}
	return wordsUsed+wordCount <= p.WordLimit
}

// Defaults returns the built-in plans seeded on first run.
func Defaults() []Plan {
	return []Plan{
		{
			ID:             FreeID,
			Name:           "Free",
			Description:    "Basic access to the API",
			Price:          0,
			Currency:       "KES",
			BillingCycle:   "monthly",
			WordLimit:      1000,
			RequestsPerDay: 10,
			Features:       []string{"Basic text humanization", "Limited requests"},
			IsActive:       true,
		},
		{
			ID:             "standard",
			Name:           "Standard",
			Description:    "Standard access with higher limits",
			Price:          9.99,
			Currency:       "KES",
			BillingCycle:   "monthly",
			WordLimit:      10000,
			RequestsPerDay: 100,
			Features:       []string{"Full text humanization", "AI detection", "Higher word limits"},
			IsActive:       true,
		},
		{
			ID:             "premium",
			Name:           "Premium",
			Description:    "Premium access with highest limits",
			Price:          29.99,
			Currency:       "KES",
			BillingCycle:   "monthly",
			WordLimit:      100000,
			RequestsPerDay: 1000,
			Features:       []string{"Priority processing", "Advanced humanization", "Unlimited detections", "Technical support"},
			IsActive:       true,
		},
	}
}
