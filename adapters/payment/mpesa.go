package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andikar-ai/gateway/ports"
)

// Mpesa implements ports.PaymentProvider against the Safaricom Daraja
// API. When credentials are absent the provider runs in simulation
// mode: Initiate returns a synthetic checkout and QueryStatus reports
// success, which keeps development environments working without a
// Safaricom account.
type Mpesa struct {
	client *http.Client
	cfg    MpesaConfig
	clock  ports.Clock
}

// MpesaConfig contains Daraja API credentials and settings.
type MpesaConfig struct {
	BaseURL        string // defaults to the sandbox
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
}

const sandboxBaseURL = "https://sandbox.safaricom.co.ke"

// NewMpesa creates a new M-Pesa payment provider.
func NewMpesa(cfg MpesaConfig, clock ports.Clock) *Mpesa {
	if cfg.BaseURL == "" {
		cfg.BaseURL = sandboxBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Mpesa{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
		clock:  clock,
	}
}

// Name identifies the provider.
func (m *Mpesa) Name() string { return "mpesa" }

// Simulated reports whether the provider is running without credentials.
func (m *Mpesa) Simulated() bool {
	return m.cfg.ConsumerKey == "" || m.cfg.ConsumerSecret == ""
}

// Initiate starts an STK push payment on the customer's phone.
func (m *Mpesa) Initiate(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResponse, error) {
	if m.Simulated() {
		return m.simulate(req), nil
	}

	token, err := m.accessToken(ctx)
	if err != nil {
		return ports.PaymentResponse{}, fmt.Errorf("mpesa auth: %w", err)
	}

	now := m.clock.Now().UTC()
	timestamp := now.Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(m.cfg.ShortCode + m.cfg.Passkey + timestamp))

	payload := map[string]any{
		"BusinessShortCode": m.cfg.ShortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int(req.Amount),
		"PartyA":            req.PhoneNumber,
		"PartyB":            m.cfg.ShortCode,
		"PhoneNumber":       req.PhoneNumber,
		"CallBackURL":       m.cfg.CallbackURL,
		"AccountReference":  req.AccountReference,
		"TransactionDesc":   req.Description,
	}

	var out struct {
		CheckoutRequestID   string `json:"CheckoutRequestID"`
		ResponseCode        string `json:"ResponseCode"`
		ResponseDescription string `json:"ResponseDescription"`
		CustomerMessage     string `json:"CustomerMessage"`
	}
	if err := m.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &out); err != nil {
		return ports.PaymentResponse{}, fmt.Errorf("mpesa stk push: %w", err)
	}

	return ports.PaymentResponse{
		CheckoutRequestID:   out.CheckoutRequestID,
		ResponseCode:        out.ResponseCode,
		ResponseDescription: out.ResponseDescription,
		CustomerMessage:     out.CustomerMessage,
	}, nil
}

// QueryStatus checks the state of a previously initiated payment.
func (m *Mpesa) QueryStatus(ctx context.Context, checkoutRequestID string) (ports.PaymentStatus, error) {
	if m.Simulated() {
		return ports.PaymentStatus{
			ResultCode:        "0",
			ResultDescription: "The service request is processed successfully.",
			CheckoutRequestID: checkoutRequestID,
		}, nil
	}

	token, err := m.accessToken(ctx)
	if err != nil {
		return ports.PaymentStatus{}, fmt.Errorf("mpesa auth: %w", err)
	}

	now := m.clock.Now().UTC()
	timestamp := now.Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(m.cfg.ShortCode + m.cfg.Passkey + timestamp))

	payload := map[string]any{
		"BusinessShortCode": m.cfg.ShortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	var out struct {
		ResultCode        string `json:"ResultCode"`
		ResultDesc        string `json:"ResultDesc"`
		CheckoutRequestID string `json:"CheckoutRequestID"`
	}
	if err := m.post(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &out); err != nil {
		return ports.PaymentStatus{}, fmt.Errorf("mpesa query: %w", err)
	}

	return ports.PaymentStatus{
		ResultCode:        out.ResultCode,
		ResultDescription: out.ResultDesc,
		CheckoutRequestID: out.CheckoutRequestID,
	}, nil
}

func (m *Mpesa) simulate(req ports.PaymentRequest) ports.PaymentResponse {
	now := m.clock.Now().UTC()
	return ports.PaymentResponse{
		CheckoutRequestID:   "ws_CO_" + now.Format("020120060405") + req.PhoneNumber,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}
}

func (m *Mpesa) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		m.cfg.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(m.cfg.ConsumerKey, m.cfg.ConsumerSecret)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token status %d", ports.ErrUnavailable, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}
	return out.AccessToken, nil
}

func (m *Mpesa) post(ctx context.Context, path, token string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ports.ErrUnavailable, resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*Mpesa)(nil)
