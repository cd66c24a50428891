// Package api issues authenticated requests against the Data2CRM REST API.
// Payloads are passed through as raw JSON; the client never models CRM
// entities.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/data2crm/data2crm-cli/internal/derrors"
	"github.com/data2crm/data2crm-cli/internal/logger"
	"github.com/data2crm/data2crm-cli/internal/timing"
	"github.com/data2crm/data2crm-cli/internal/trace"
)

const (
	// DefaultTimeout bounds every request, connection and body read included
	DefaultTimeout = 30 * time.Second

	// APIKeyHeader carries the credential on every request
	APIKeyHeader = "X-API-KEY"
)

// CredentialSource resolves the settings a client is bound to.
// config.Store satisfies it.
type CredentialSource interface {
	APIKey() (string, error)
	BaseURL() string
}

// Settings are the resolved values a client is built from
type Settings struct {
	APIKey  string
	BaseURL string
}

// Client is bound to one API key and base URL
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (useful for testing).
// The given client's own Timeout applies instead of WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the given settings
func NewClient(s Settings, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(s.BaseURL, "/"),
		apiKey:  s.APIKey,
		timeout: DefaultTimeout,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// New resolves credentials from src and builds a client. A missing API key
// is returned as the source's ConfigurationError before any network activity.
func New(src CredentialSource, opts ...Option) (*Client, error) {
	apiKey, err := src.APIKey()
	if err != nil {
		return nil, err
	}
	return NewClient(Settings{APIKey: apiKey, BaseURL: src.BaseURL()}, opts...), nil
}

// BaseURL returns the endpoint the client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET with params encoded as the query string
func (c *Client) Get(ctx context.Context, path string, params map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST with body encoded as JSON. A nil body is sent as {}.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, orEmpty(body))
}

// Put issues a PUT with body encoded as JSON. A nil body is sent as {}.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, orEmpty(body))
}

// Delete issues a DELETE without a body
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func orEmpty(body any) any {
	if body == nil {
		return map[string]any{}
	}
	return body
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]any, body any) (json.RawMessage, error) {
	defer trace.Region(ctx, "api."+method)()
	timer := timing.NewTimer()

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if q := encodeQuery(params); q != "" {
		target += "?" + q
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, derrors.NewRequestError(method, path, 0, "failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, derrors.NewRequestError(method, path, 0, "failed to create request", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("method", method).Str("url", target).Msg("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("Request failed")
		return nil, derrors.NewRequestError(method, path, 0, transportMessage(err), err)
	}
	defer func() { _ = resp.Body.Close() }()
	timer.Mark("headers")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, derrors.NewRequestError(method, path, resp.StatusCode, "failed to read response body", err)
	}
	timer.Mark("body")
	trace.Log(ctx, "status", strconv.Itoa(resp.StatusCode))

	if c.log.Enabled("debug") {
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Dur("duration", timer.Elapsed()).
			Str("timing", timer.Summary()).
			Msg("Received response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, derrors.NewRequestError(method, path, resp.StatusCode, errorMessage(resp.StatusCode, data), nil)
	}

	return normalize(data), nil
}

// encodeQuery renders params in key order; nil values are omitted
// and integers keep their numeric form.
func encodeQuery(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
			continue
		case string:
			values.Set(k, v)
		case int:
			values.Set(k, strconv.Itoa(v))
		case int64:
			values.Set(k, strconv.FormatInt(v, 10))
		case bool:
			values.Set(k, strconv.FormatBool(v))
		case float64:
			values.Set(k, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			values.Set(k, fmt.Sprint(v))
		}
	}
	return values.Encode()
}

// normalize turns an empty body into null and a non-JSON body into a JSON
// string, so the payload handed back is always valid JSON.
func normalize(data []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(data))
	return json.RawMessage(quoted)
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return "request failed"
}
