package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andikar-ai/gateway/domain/account"
	"github.com/andikar-ai/gateway/ports"
)

// Transaction states.
const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
)

// PaymentService drives plan payments through a payment provider and
// records every attempt as a transaction.
type PaymentService struct {
	users    ports.UserStore
	plans    ports.PlanStore
	txs      ports.TransactionStore
	provider ports.PaymentProvider
	clock    ports.Clock
	idGen    ports.IDGenerator
	log      zerolog.Logger
}

// PaymentDeps contains dependencies for PaymentService.
type PaymentDeps struct {
	Users    ports.UserStore
	Plans    ports.PlanStore
	Txs      ports.TransactionStore
	Provider ports.PaymentProvider
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Log      zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(deps PaymentDeps) *PaymentService {
	return &PaymentService{
		users:    deps.Users,
		plans:    deps.Plans,
		txs:      deps.Txs,
		provider: deps.Provider,
		clock:    deps.Clock,
		idGen:    deps.IDGen,
		log:      deps.Log,
	}
}

// Initiate starts a payment for the user's plan and records a pending
// transaction keyed by the provider's checkout reference.
func (s *PaymentService) Initiate(ctx context.Context, userID, phoneNumber string) (ports.Transaction, ports.PaymentResponse, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return ports.Transaction{}, ports.PaymentResponse{}, fmt.Errorf("load user: %w", err)
	}

	p, err := s.plans.Get(ctx, user.PlanID)
	if err != nil {
		return ports.Transaction{}, ports.PaymentResponse{}, fmt.Errorf("load plan: %w", err)
	}
	if p.IsFree() {
		return ports.Transaction{}, ports.PaymentResponse{}, fmt.Errorf("plan %q requires no payment", p.ID)
	}

	resp, err := s.provider.Initiate(ctx, ports.PaymentRequest{
		PhoneNumber:      phoneNumber,
		Amount:           p.Price,
		AccountReference: user.Username,
		Description:      p.Name + " plan",
	})
	if err != nil {
		return ports.Transaction{}, ports.PaymentResponse{}, fmt.Errorf("initiate payment: %w", err)
	}

	now := s.clock.Now().UTC()
	tx := ports.Transaction{
		ID:        s.idGen.New(),
		UserID:    user.ID,
		Amount:    p.Price,
		Currency:  p.Currency,
		Method:    s.provider.Name(),
		Status:    TxPending,
		Reference: resp.CheckoutRequestID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return ports.Transaction{}, ports.PaymentResponse{}, fmt.Errorf("record transaction: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("reference", tx.Reference).
		Float64("amount", tx.Amount).
		Msg("payment initiated")
	return tx, resp, nil
}

// Confirm processes a provider callback. Result code "0" completes the
// transaction and marks the user paid; anything else fails it.
func (s *PaymentService) Confirm(ctx context.Context, status ports.PaymentStatus) (ports.Transaction, error) {
	tx, err := s.txs.GetByReference(ctx, status.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.Transaction{}, fmt.Errorf("unknown payment reference %q: %w", status.CheckoutRequestID, err)
		}
		return ports.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	if tx.Status != TxPending {
		// Callbacks can be delivered more than once.
		return tx, nil
	}

	now := s.clock.Now().UTC()
	if status.ResultCode != "0" {
		if err := s.txs.UpdateStatus(ctx, tx.ID, TxFailed, now); err != nil {
			return ports.Transaction{}, fmt.Errorf("update transaction: %w", err)
		}
		tx.Status = TxFailed
		s.log.Warn().
			Str("reference", tx.Reference).
			Str("result", status.ResultDescription).
			Msg("payment failed")
		return tx, nil
	}

	if err := s.txs.UpdateStatus(ctx, tx.ID, TxCompleted, now); err != nil {
		return ports.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	tx.Status = TxCompleted

	user, err := s.users.Get(ctx, tx.UserID)
	if err != nil {
		return ports.Transaction{}, fmt.Errorf("load user: %w", err)
	}
	user.PaymentStatus = account.PaymentPaid
	if err := s.users.Update(ctx, user); err != nil {
		return ports.Transaction{}, fmt.Errorf("mark user paid: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("reference", tx.Reference).
		Msg("payment completed")
	return tx, nil
}

// Transactions lists the user's payment history, newest first.
func (s *PaymentService) Transactions(ctx context.Context, userID string, limit int) ([]ports.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.txs.ListByUser(ctx, userID, limit)
}

// AllTransactions lists every transaction, for admin review.
func (s *PaymentService) AllTransactions(ctx context.Context, limit, offset int) ([]ports.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.txs.List(ctx, limit, offset)
}
