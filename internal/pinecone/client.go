// Package pinecone is a thin REST client for the Pinecone vector
// database, covering the single query operation the assistant needs.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fyreone/fyreone/internal/log"
)

// Sentinel errors. Check with errors.Is().
var (
	// ErrNotConfigured indicates no API key was provided.
	ErrNotConfigured = errors.New("pinecone not configured")
	// ErrUnavailable indicates the index endpoint failed.
	ErrUnavailable = errors.New("pinecone unavailable")
)

const (
	// ControlPlaneURL is the global API used to look up index hosts.
	ControlPlaneURL = "https://api.pinecone.io"

	defaultTimeout = 30 * time.Second
)

// Config configures the index client.
type Config struct {
	APIKey string
	// Index is the index name, resolved to a host via the control plane.
	Index string
	// Host overrides control-plane resolution when set. Used in tests
	// and for serverless deployments with a known endpoint.
	Host string
	// ControlPlaneURL overrides the control plane endpoint. Empty means
	// the public API.
	ControlPlaneURL string
	Timeout         time.Duration
}

// Client queries a single Pinecone index. The index host is resolved
// lazily on first query and cached for the life of the client.
type Client struct {
	apiKey       string
	index        string
	controlPlane string
	client       *http.Client
	logger       log.Logger

	mu   sync.Mutex
	host string
}

// Match is one scored result from the index.
type Match struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the document fields stored alongside each vector.
type Metadata struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// NewClient creates an index client. A missing API key is allowed: the
// client reports unconfigured and Query fails with ErrNotConfigured.
func NewClient(cfg Config, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = ControlPlaneURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		apiKey:       cfg.APIKey,
		index:        cfg.Index,
		controlPlane: cfg.ControlPlaneURL,
		host:         normalizeHost(cfg.Host),
		client:       &http.Client{Timeout: cfg.Timeout},
		logger:       logger.With("component", "pinecone"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

// Query returns the topK nearest matches for vector, with metadata.
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	host, err := c.resolveHost(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return out.Matches, nil
}

// resolveHost returns the cached index host, asking the control plane
// once on first use.
func (c *Client) resolveHost(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.host != "" {
		return c.host, nil
	}

	url := fmt.Sprintf("%s/indexes/%s", c.controlPlane, c.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building describe request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: describing index: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: describe status %d", ErrUnavailable, resp.StatusCode)
	}

	var desc struct {
		Host string `json:"host"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return "", fmt.Errorf("%w: decoding describe response: %v", ErrUnavailable, err)
	}
	if desc.Host == "" {
		return "", fmt.Errorf("%w: index %q has no host", ErrUnavailable, c.index)
	}

	c.host = normalizeHost(desc.Host)
	c.logger.Debug("resolved index host", "index", c.index, "host", c.host)
	return c.host, nil
}

// normalizeHost ensures a scheme and no trailing slash. The control
// plane returns bare hostnames.
func normalizeHost(host string) string {
	if host == "" {
		return ""
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return strings.TrimRight(host, "/")
}
