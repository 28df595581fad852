package search

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matheus3301/portal/internal/httpx"
)

// Searcher runs a query against the search backend.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Result, error)
}

// Client is the HTTP Searcher.
type Client struct {
	http *httpx.Client
}

// NewClient creates a client for the endpoint searchURL.
func NewClient(searchURL string, hc *http.Client) *Client {
	return &Client{http: httpx.NewClient(searchURL, hc)}
}

// URL returns the full request URL for q.
func (c *Client) URL(q Query) string {
	return BuildURL(c.http.BaseURL(), q)
}

// Search issues q and parses the payload.
func (c *Client) Search(ctx context.Context, q Query) ([]Result, error) {
	resp, err := c.http.Get(ctx, "?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.Text, err)
	}
	return Parse(resp.Body)
}
