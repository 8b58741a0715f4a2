// Package account provides pure account-access checks.
package account

import "github.com/andikar-ai/gateway/domain/plan"

// Payment status values carried on a user record.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// Denial reasons.
const (
	ReasonInactive        = "account_inactive"
	ReasonPaymentRequired = "payment_required"
	ReasonWordLimit       = "word_limit_exceeded"
	ReasonUnknownPlan     = "unknown_plan"
)

// AccessResult is the outcome of an access check.
type AccessResult struct {
	Allowed bool
	Reason  string
}

// CheckAccess decides whether a user may process wordCount more words.
// Paid plans require a settled payment; every plan enforces its word
// budget. This is a PURE function.
func CheckAccess(active bool, paymentStatus string, p plan.Plan, planFound bool, wordsUsed, wordCount int) AccessResult {
	if !active {
		return AccessResult{Reason: ReasonInactive}
	}
	if !planFound {
		return AccessResult{Reason: ReasonUnknownPlan}
	}
	if !p.IsFree() && paymentStatus != PaymentPaid {
		return AccessResult{Reason: ReasonPaymentRequired}
	}
	if !p.AllowsWords(wordsUsed, wordCount) {
		return AccessResult{Reason: ReasonWordLimit}
	}
	return AccessResult{Allowed: true}
}

// WordCount counts whitespace-separated words, the unit the word
// budget and usage accounting are expressed in.
func WordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}
