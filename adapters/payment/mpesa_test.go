package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andikar-ai/gateway/adapters/clock"
	"github.com/andikar-ai/gateway/adapters/payment"
	"github.com/andikar-ai/gateway/ports"
)

func TestMpesa_SimulatedInitiate(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	m := payment.NewMpesa(payment.MpesaConfig{}, clk)

	if !m.Simulated() {
		t.Fatal("provider without credentials should be simulated")
	}

	resp, err := m.Initiate(context.Background(), ports.PaymentRequest{
		PhoneNumber:      "254712345678",
		Amount:           9.99,
		AccountReference: "andikar",
		Description:      "Standard plan",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if !strings.HasPrefix(resp.CheckoutRequestID, "ws_CO_") {
		t.Errorf("CheckoutRequestID = %s, want ws_CO_ prefix", resp.CheckoutRequestID)
	}
	if resp.ResponseCode != "0" {
		t.Errorf("ResponseCode = %s, want 0", resp.ResponseCode)
	}
}

func TestMpesa_SimulatedQueryStatus(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	m := payment.NewMpesa(payment.MpesaConfig{}, clk)

	status, err := m.QueryStatus(context.Background(), "ws_CO_test")
	if err != nil {
		t.Fatalf("query status: %v", err)
	}
	if status.ResultCode != "0" {
		t.Errorf("ResultCode = %s, want 0", status.ResultCode)
	}
	if status.CheckoutRequestID != "ws_CO_test" {
		t.Errorf("CheckoutRequestID = %s, want ws_CO_test", status.CheckoutRequestID)
	}
}

func TestMpesa_StkPush(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "key" || pass != "secret" {
				t.Errorf("basic auth = %s:%s", user, pass)
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
		case "/mpesa/stkpush/v1/processrequest":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("Authorization = %s, want Bearer tok-1", got)
			}
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req["PhoneNumber"] != "254712345678" {
				t.Errorf("PhoneNumber = %v", req["PhoneNumber"])
			}
			if req["TransactionType"] != "CustomerPayBillOnline" {
				t.Errorf("TransactionType = %v", req["TransactionType"])
			}
			json.NewEncoder(w).Encode(map[string]string{
				"CheckoutRequestID":   "ws_CO_abc123",
				"ResponseCode":        "0",
				"ResponseDescription": "Success",
				"CustomerMessage":     "Check your phone",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	clk := clock.NewFake(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	m := payment.NewMpesa(payment.MpesaConfig{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/callback",
	}, clk)

	if m.Simulated() {
		t.Fatal("provider with credentials should not be simulated")
	}

	resp, err := m.Initiate(context.Background(), ports.PaymentRequest{
		PhoneNumber:      "254712345678",
		Amount:           29.99,
		AccountReference: "andikar",
		Description:      "Premium plan",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if resp.CheckoutRequestID != "ws_CO_abc123" {
		t.Errorf("CheckoutRequestID = %s, want ws_CO_abc123", resp.CheckoutRequestID)
	}
	if resp.CustomerMessage != "Check your phone" {
		t.Errorf("CustomerMessage = %s", resp.CustomerMessage)
	}
}
