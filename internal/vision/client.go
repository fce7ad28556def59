// Package vision provides the HTTP client for the facial emotion
// classification service.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/mindtrace/engine/internal/domain"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client for inference requests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHealthClient sets a custom HTTP client for health checks.
func WithHealthClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.healthClient = httpClient
	}
}

// Client talks to the vision inference service. Health checks use a short
// timeout; inference a longer one. Neither call is retried: the caller treats
// any failure as an unconditional fallback to keep request latency bounded.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	healthClient *http.Client
}

var _ domain.VisionClient = (*Client)(nil)

// NewClient creates a client for the vision service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		healthClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type healthResponse struct {
	ModelLoaded bool `json:"model_loaded"`
}

// Healthy reports whether the service is reachable and its model is loaded.
// Any transport error reads as unhealthy.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.healthClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var out healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false
	}
	return out.ModelLoaded
}

type predictResponse struct {
	Success     bool               `json:"success"`
	AllEmotions map[string]float64 `json:"all_emotions"`
}

// PredictFace submits raw image bytes as a multipart upload and returns the
// service's per-emotion probabilities.
func (c *Client) PredictFace(ctx context.Context, image []byte) (map[string]float64, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict-face", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vision predict %s: %s", resp.Status, string(b))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("vision predict decode: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("vision predict returned success=false")
	}
	return out.AllEmotions, nil
}
