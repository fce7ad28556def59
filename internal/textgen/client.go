// Package textgen provides the HTTP client for the generative-text service
// and helpers for working with its loosely structured output.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tiktoken-go/tokenizer"

	"github.com/mindtrace/engine/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithModel sets the generation model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithMaxPromptTokens caps the prompt size. Oversized prompts are rejected
// before the network call.
func WithMaxPromptTokens(n int) ClientOption {
	return func(c *Client) {
		c.maxPromptTokens = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client is a single-shot text-generation client: one prompt in, raw text
// out. No streaming, no conversation state, no automatic retries.
type Client struct {
	apiKey          string
	baseURL         string
	model           string
	httpClient      *http.Client
	maxPromptTokens int
	logger          *slog.Logger
	codec           tokenizer.Codec
}

var _ domain.TextGenerator = (*Client)(nil)

// NewClient creates a text-generation client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      "gemini-pro",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// Token accounting is best-effort: if the encoding can't be loaded the
	// client still works, it just stops counting.
	if codec, err := tokenizer.Get(tokenizer.Cl100kBase); err == nil {
		c.codec = codec
	}

	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate submits one prompt and returns the model's raw response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("textgen: no API key configured")
	}

	if c.codec != nil {
		if n, err := c.codec.Count(prompt); err == nil {
			if c.maxPromptTokens > 0 && n > c.maxPromptTokens {
				return "", fmt.Errorf("textgen: prompt is %d tokens, limit %d", n, c.maxPromptTokens)
			}
			c.logger.Debug("submitting prompt", slog.Int("prompt_tokens", n), slog.String("model", c.model))
		}
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("textgen %s: %s", resp.Status, string(b))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("textgen decode: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("textgen: response contained no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
