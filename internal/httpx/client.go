// Package httpx holds the small JSON-over-HTTP helpers shared by the backend
// clients.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 30 * time.Second

// MaxBodySize caps how much of a response body is read. Search payloads and
// thumbnails are far below it.
const MaxBodySize = 8 << 20

// ErrBodyTooLarge is returned when a response body exceeds the client's cap.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError is returned for non-2xx responses. Body holds the raw payload.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.Status)
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client is a lightweight HTTP helper rooted at a base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxBody    int64
}

// NewClient creates a client with sane defaults. A nil hc uses a client with
// DefaultTimeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		maxBody:    MaxBodySize,
	}
}

// SetMaxBodySize changes the response body cap. n <= 0 restores MaxBodySize.
func (c *Client) SetMaxBodySize(n int64) {
	if n <= 0 {
		n = MaxBodySize
	}
	c.maxBody = n
}

// BaseURL returns the root URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	if path == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "?") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Get fetches path and returns the raw response. Non-2xx is a *StatusError.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, "")
}

// Do sends payload (JSON-encoded when non-nil) and reads the whole response.
func (c *Client) Do(ctx context.Context, method, path string, payload any, token string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	url := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%s %s: %w (over %d bytes)", method, url, ErrBodyTooLarge, c.maxBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, URL: url, Status: resp.StatusCode, Body: data}
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// PostJSON sends payload and decodes the 2xx response into R.
func PostJSON[R any](ctx context.Context, c *Client, path string, payload any, token string) (*R, error) {
	return doJSON[R](ctx, c, http.MethodPost, path, payload, token)
}

// GetJSON fetches path and decodes the 2xx response into R.
func GetJSON[R any](ctx context.Context, c *Client, path string) (*R, error) {
	return doJSON[R](ctx, c, http.MethodGet, path, nil, "")
}

func doJSON[R any](ctx context.Context, c *Client, method, path string, payload any, token string) (*R, error) {
	resp, err := c.Do(ctx, method, path, payload, token)
	if err != nil {
		return nil, err
	}
	var out R
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
