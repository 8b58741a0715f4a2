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

	"github.com/andikar-ai/gateway/domain/detect"
	"github.com/andikar-ai/gateway/ports"
)

// placeholderDetectorURL is the default value that ships in configs
// before a real detection service is provisioned. A client pointed at
// it reports itself as not configured.
const placeholderDetectorURL = "https://ai-detector-api.example.com"

// Detector calls an external AI content detection service.
type Detector struct {
	client     *http.Client
	baseURL    *url.URL
	apiKey     string
	configured bool
}

// DetectorConfig contains configuration for the detector client.
type DetectorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewDetector creates a new detector HTTP client. An empty or
// placeholder base URL produces an unconfigured client; callers should
// fall back to local scoring in that case.
func NewDetector(cfg DetectorConfig) (*Detector, error) {
	configured := cfg.BaseURL != "" && cfg.BaseURL != placeholderDetectorURL

	var baseURL *url.URL
	if configured {
		var err error
		baseURL, err = url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base URL: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Detector{
		client:     &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		configured: configured,
	}, nil
}

// Configured reports whether a real detection service is set up.
func (d *Detector) Configured() bool {
	return d.configured
}

type detectRequest struct {
	Text string `json:"text"`
}

// Detect sends text to the external service for scoring.
func (d *Detector) Detect(ctx context.Context, text string) (detect.Result, error) {
	if !d.configured {
		return detect.Result{}, fmt.Errorf("detector service: %w: not configured", ports.ErrUnavailable)
	}

	payload, err := json.Marshal(detectRequest{Text: text})
	if err != nil {
		return detect.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL.String(), bytes.NewReader(payload))
	if err != nil {
		return detect.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return detect.Result{}, fmt.Errorf("detector service: %w: %v", ports.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return detect.Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return detect.Result{}, fmt.Errorf("detector service: %w: status %d", ports.ErrUnavailable, resp.StatusCode)
	}

	var result detect.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return detect.Result{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Ping verifies the detector service is reachable.
func (d *Detector) Ping(ctx context.Context) error {
	if !d.configured {
		return fmt.Errorf("detector service: %w: not configured", ports.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL.String(), nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Ensure interface compliance.
var _ ports.Detector = (*Detector)(nil)
