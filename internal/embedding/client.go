// Package embedding converts free text to fixed-length vectors via the
// HuggingFace inference API's feature-extraction pipeline.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fyreone/fyreone/internal/log"
)

// Sentinel errors. Check with errors.Is().
var (
	// ErrNotConfigured indicates no API key was provided.
	ErrNotConfigured = errors.New("embedding service not configured")
	// ErrUnavailable indicates the embedding endpoint failed (transport
	// error or non-200 status).
	ErrUnavailable = errors.New("embedding service unavailable")
	// ErrInvalidResponse indicates the endpoint answered 200 with a body
	// that is neither a vector nor a batch-of-one.
	ErrInvalidResponse = errors.New("invalid embedding response")
)

const (
	// DefaultBaseURL is the HuggingFace inference API endpoint.
	DefaultBaseURL = "https://api-inference.huggingface.co"

	// maxInputRunes caps the text sent for embedding. Longer input adds
	// latency without improving retrieval for question-length queries.
	maxInputRunes = 1500

	defaultTimeout = 30 * time.Second
)

// Config configures the embeddings client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is an HTTP client for the feature-extraction pipeline.
// Stateless; safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  log.Logger
}

// NewClient creates an embeddings client. A missing API key is allowed:
// the client reports unconfigured and Embed fails with ErrNotConfigured,
// letting the service start degraded.
func NewClient(cfg Config, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("component", "embedding"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// request is the feature-extraction payload. wait_for_model blocks on the
// provider side until the model is loaded instead of answering 503.
type request struct {
	Inputs  string  `json:"inputs"`
	Options options `json:"options"`
}

type options struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Embed converts text to a vector. Input is truncated to its first 1500
// runes. The endpoint may answer with a flat vector or a batch-of-one;
// both are normalized to a flat []float32.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(request{
		Inputs:  truncate(text, maxInputRunes),
		Options: options{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	payload := json.NewDecoder(resp.Body)

	var raw json.RawMessage
	if err := payload.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return decodeVector(raw)
}

// decodeVector normalizes the two accepted response shapes - a flat vector
// or a batch-of-one - to a flat vector. Anything else is invalid.
func decodeVector(raw json.RawMessage) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		if len(flat) == 0 {
			return nil, fmt.Errorf("%w: empty vector", ErrInvalidResponse)
		}
		return flat, nil
	}

	var batch [][]float32
	if err := json.Unmarshal(raw, &batch); err == nil {
		if len(batch) == 0 || len(batch[0]) == 0 {
			return nil, fmt.Errorf("%w: empty batch", ErrInvalidResponse)
		}
		return batch[0], nil
	}

	return nil, ErrInvalidResponse
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
