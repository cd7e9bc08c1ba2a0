// Package api implements the HTTP transport for the Chroma server.
//
// A Client issues authenticated, connection-pooled requests. Unscoped paths
// are prefixed with the API root; database-scoped paths are additionally
// prefixed with the session's tenant and database. Responses are returned
// raw and decoded by the caller.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/blueberrycongee/chromago/internal/metrics"
	"github.com/blueberrycongee/chromago/pkg/errors"
	"github.com/blueberrycongee/chromago/pkg/types"
)

const (
	basePath = "/api/v2"

	// RequestIDHeader carries a per-request ID for server-side correlation.
	RequestIDHeader = "X-Request-ID"
)

// Config holds the immutable settings for a transport client.
type Config struct {
	Endpoint    string
	Auth        types.AuthMethod
	Tenant      string
	Database    string
	Connections int
	Timeout     time.Duration
	Logger      *slog.Logger
}

// Client issues requests to a single Chroma server on behalf of one
// (tenant, database) session. It is safe for concurrent use and is shared
// by the session client and every collection handle it produces.
type Client struct {
	endpoint   string
	auth       types.AuthMethod
	tenant     string
	database   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a transport client. Construction is synchronous and
// infallible; connectivity problems surface on the first request.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	connections := cfg.Connections
	if connections <= 0 {
		connections = 4
	}
	auth := cfg.Auth
	if auth.Token != "" && auth.Header == "" {
		auth.Header = types.TokenHeaderAuthorization
	}

	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		auth:     auth,
		tenant:   cfg.Tenant,
		database: cfg.Database,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        connections,
				MaxIdleConnsPerHost: connections,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Tenant returns the tenant this client is scoped to.
func (c *Client) Tenant() string { return c.tenant }

// Database returns the database this client is scoped to.
func (c *Client) Database() string { return c.database }

// Endpoint returns the resolved server endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

// Get issues an unscoped read, such as /version or /heartbeat.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, basePath+path, nil)
}

// GetDatabase issues a read scoped to the session's tenant and database.
func (c *Client) GetDatabase(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.databasePath(path), nil)
}

// PostDatabase issues a write scoped to the session's tenant and database.
// A non-nil body is serialized as JSON.
func (c *Client) PostDatabase(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.databasePath(path), body)
}

// DeleteDatabase issues a delete scoped to the session's tenant and database.
func (c *Client) DeleteDatabase(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, c.databasePath(path), nil)
}

func (c *Client) databasePath(path string) string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s%s", basePath, c.tenant, c.database, path)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	switch c.auth.Header {
	case types.TokenHeaderAuthorization:
		req.Header.Set("Authorization", "Bearer "+c.auth.Token)
	case types.TokenHeaderXChromaToken:
		req.Header.Set("X-Chroma-Token", c.auth.Token)
	}

	operation := method + " " + metricPath(path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordRequest(operation, 0, time.Since(start).Seconds())
		return nil, errors.NewTransportError(path, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.RecordRequest(operation, resp.StatusCode, elapsed.Seconds())
	if err != nil {
		return nil, errors.NewTransportError(path, fmt.Sprintf("read response: %v", err))
	}

	c.logger.DebugContext(ctx, "chroma request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", elapsed,
	)

	if resp.StatusCode >= 400 {
		return nil, errors.FromStatusCode(resp.StatusCode, path, serverMessage(raw))
	}

	return &Response{path: path, body: raw}, nil
}

// serverMessage extracts the human-readable message from a Chroma error body.
func serverMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return "unknown error"
}

// metricPath collapses resource IDs so metric label cardinality stays bounded.
func metricPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if _, err := uuid.Parse(segment); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// Response is a raw, fully-read server response awaiting decode.
type Response struct {
	path string
	body []byte
}

// Decode unmarshals the response body into v, reporting a decode error on
// shape mismatch.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return errors.NewDecodeError(r.path, err.Error())
	}
	return nil
}
