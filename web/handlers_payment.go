package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/andikar-ai/gateway/ports"
)

// InitiatePaymentRequest starts an M-Pesa STK push for the caller's plan.
type InitiatePaymentRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// PaymentResponse is the body returned after initiating a payment.
type PaymentResponse struct {
	TransactionID     string  `json:"transaction_id"`
	CheckoutRequestID string  `json:"checkout_request_id"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	Status            string  `json:"status"`
	CustomerMessage   string  `json:"customer_message,omitempty"`
}

// TransactionResponse is one payment record.
type TransactionResponse struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// mpesaCallback is the Daraja STK push result payload.
type mpesaCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string      `json:"MerchantRequestID"`
			CheckoutRequestID string      `json:"CheckoutRequestID"`
			ResultCode        json.Number `json:"ResultCode"`
			ResultDesc        string      `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string `json:"Name"`
					Value any    `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// InitiatePayment starts an M-Pesa payment for the caller's plan.
//
//	@Summary		Initiate M-Pesa payment
//	@Description	Sends an STK push for the caller's plan price and records a pending transaction.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InitiatePaymentRequest	true	"Payer phone number"
//	@Success		200		{object}	PaymentResponse
//	@Failure		400		{object}	jsonapi.Document	"Free plan or bad phone number"
//	@Security		BearerAuth
//	@Router			/api/payments/mpesa/initiate [post]
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req InitiatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.PhoneNumber == "" {
		writeBadRequest(w, "phone_number is required")
		return
	}

	tx, resp, err := h.payments.Initiate(r.Context(), user.ID, req.PhoneNumber)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, PaymentResponse{
		TransactionID:     tx.ID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Amount:            tx.Amount,
		Currency:          tx.Currency,
		Status:            tx.Status,
		CustomerMessage:   resp.CustomerMessage,
	})
}

// PaymentCallback processes the M-Pesa result callback.
//
//	@Summary		M-Pesa callback
//	@Description	Receives the Daraja STK push result. Completes the transaction and marks the user paid on result code 0.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		404	{object}	jsonapi.Document	"Unknown checkout reference"
//	@Router			/api/payments/mpesa/callback [post]
func (h *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var cb mpesaCallback
	if err := decodeJSON(r, &cb); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	stk := cb.Body.StkCallback
	if stk.CheckoutRequestID == "" {
		writeBadRequest(w, "CheckoutRequestID is required")
		return
	}

	status := ports.PaymentStatus{
		ResultCode:        stk.ResultCode.String(),
		ResultDescription: stk.ResultDesc,
		CheckoutRequestID: stk.CheckoutRequestID,
	}
	for _, item := range stk.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if v, ok := item.Value.(float64); ok {
				status.Amount = v
			}
		case "MpesaReceiptNumber":
			if v, ok := item.Value.(string); ok {
				status.ReceiptNumber = v
			}
		case "PhoneNumber":
			switch v := item.Value.(type) {
			case string:
				status.PhoneNumber = v
			case float64:
				status.PhoneNumber = strconv.FormatFloat(v, 'f', 0, 64)
			}
		}
	}

	tx, err := h.payments.Confirm(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	// Daraja-style acknowledgement.
	writeJSON(w, http.StatusOK, map[string]any{
		"ResultCode": 0,
		"ResultDesc": "Accepted",
		"status":     tx.Status,
	})
}

// Transactions lists the caller's payment history.
//
//	@Summary		List own transactions
//	@Tags			Payments
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum rows (default 20)"
//	@Success		200		{array}		TransactionResponse
//	@Security		BearerAuth
//	@Router			/api/transactions [get]
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	txs, err := h.payments.Transactions(r.Context(), user.ID, queryInt(r, "limit", 20))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func transactionResponse(tx ports.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Amount:    tx.Amount,
		Currency:  tx.Currency,
		Method:    tx.Method,
		Status:    tx.Status,
		Reference: tx.Reference,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}

// UsageDay is one day of the caller's usage history.
type UsageDay struct {
	Date             string  `json:"date"`
	HumanizeRequests int     `json:"humanize_requests"`
	DetectRequests   int     `json:"detect_requests"`
	WordsProcessed   int     `json:"words_processed"`
	ProcessingTime   float64 `json:"processing_time"`
}

// UsageResponse is the caller's usage summary.
type UsageResponse struct {
	Today   UsageDay   `json:"today"`
	History []UsageDay `json:"history"`
}

// Usage returns the caller's usage history, newest first.
//
//	@Summary		Usage history
//	@Description	Returns today's usage and the most recent daily aggregates.
//	@Tags			Account
//	@Produce		json
//	@Param			limit	query		int	false	"History days (default 30)"
//	@Success		200		{object}	UsageResponse
//	@Security		BearerAuth
//	@Router			/api/usage [get]
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	today, err := h.accountant.Today(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	history, err := h.accountant.History(r.Context(), user.ID, queryInt(r, "limit", 30))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := UsageResponse{
		Today: UsageDay{
			Date:             today.Date.String(),
			HumanizeRequests: today.HumanizeRequests,
			DetectRequests:   today.DetectRequests,
			WordsProcessed:   today.WordsProcessed,
			ProcessingTime:   today.TotalProcessingTime,
		},
		History: make([]UsageDay, 0, len(history)),
	}
	for _, st := range history {
		resp.History = append(resp.History, UsageDay{
			Date:             st.Date.String(),
			HumanizeRequests: st.HumanizeRequests,
			DetectRequests:   st.DetectRequests,
			WordsProcessed:   st.WordsProcessed,
			ProcessingTime:   st.TotalProcessingTime,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, name string, fallback int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
