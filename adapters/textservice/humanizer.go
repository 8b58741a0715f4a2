package textservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/andikar-ai/gateway/ports"
)

// Humanizer calls the external text humanization service.
type Humanizer struct {
	client  *http.Client
	baseURL *url.URL
}

// HumanizerConfig contains configuration for the humanizer client.
type HumanizerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewHumanizer creates a new humanizer HTTP client.
func NewHumanizer(cfg HumanizerConfig) (*Humanizer, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Humanizer{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}, nil
}

type humanizeRequest struct {
	InputText string `json:"input_text"`
}

type humanizeResponse struct {
	Result string `json:"result"`
}

// Humanize sends text to the external service and returns the rewritten version.
func (h *Humanizer) Humanize(ctx context.Context, text string) (string, error) {
	endpoint := h.baseURL.ResolveReference(&url.URL{Path: "/humanize_text"})

	payload, err := json.Marshal(humanizeRequest{InputText: text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("humanizer service: %w: %v", ports.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB limit
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("humanizer service: %w: status %d", ports.ErrUnavailable, resp.StatusCode)
	}

	var out humanizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Result, nil
}

// HealthCheck verifies the humanizer service is reachable.
func (h *Humanizer) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL.String(), nil)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	// Any response means the service is reachable
	return nil
}

// Ensure interface compliance.
var _ ports.Humanizer = (*Humanizer)(nil)
