package account_test

import (
	"testing"

	"github.com/andikar-ai/gateway/domain/account"
	"github.com/andikar-ai/gateway/domain/plan"
)

var standard = plan.Plan{ID: "standard", Price: 9.99, WordLimit: 1000}
var free = plan.Plan{ID: plan.FreeID, WordLimit: 100}

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name          string
		active        bool
		paymentStatus string
		plan          plan.Plan
		planFound     bool
		wordsUsed     int
		wordCount     int
		wantAllowed   bool
		wantReason    string
	}{
		{"paid user within budget", true, account.PaymentPaid, standard, true, 0, 500, true, ""},
		{"inactive user", false, account.PaymentPaid, standard, true, 0, 10, false, account.ReasonInactive},
		{"unpaid on paid plan", true, account.PaymentPending, standard, true, 0, 10, false, account.ReasonPaymentRequired},
		{"pending on free plan ok", true, account.PaymentPending, free, true, 0, 10, true, ""},
		{"over word budget", true, account.PaymentPaid, standard, true, 900, 200, false, account.ReasonWordLimit},
		{"unknown plan", true, account.PaymentPaid, plan.Plan{}, false, 0, 10, false, account.ReasonUnknownPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := account.CheckAccess(tt.active, tt.paymentStatus, tt.plan, tt.planFound, tt.wordsUsed, tt.wordCount)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"  spaced\tout\nwords  ", 3},
	}
	for _, tt := range tests {
		if got := account.WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
