// Package transport is the single HTTP boundary of the pipeline. Every
// request leaves through a Client; redirect and connection handling stay
// delegated to net/http.
package transport

import (
	"context"
	"fmt"
	"net/http"
)

// Doer executes a single HTTP request. *http.Client satisfies it; tests
// inject counting or failing implementations.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues GET and HEAD requests for relative paths below a fixed
// base URL. Read-only after construction, safe for concurrent use.
type Client struct {
	doer      Doer
	baseURL   string
	userAgent string
}

// NewClient creates a Client. A nil doer falls back to http.DefaultClient.
func NewClient(doer Doer, baseURL, userAgent string) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{doer: doer, baseURL: baseURL, userAgent: userAgent}
}

// URLFor joins the base URL with a relative path. The base is normalized
// at construction time, so a single separator is always correct.
func (c *Client) URLFor(relPath string) string {
	return c.baseURL + "/" + relPath
}

// Get requests the content of a relative path. The caller owns the
// response body.
func (c *Client) Get(ctx context.Context, relPath string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, relPath)
}

// Head requests only the headers of a relative path. The caller still
// closes the (empty) body.
func (c *Client) Head(ctx context.Context, relPath string) (*http.Response, error) {
	return c.do(ctx, http.MethodHead, relPath)
}

func (c *Client) do(ctx context.Context, method, relPath string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URLFor(relPath), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request for %s: %w", method, relPath, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, relPath, err)
	}
	return resp, nil
}

// Success reports whether a status code counts as a hit. Any 2xx does.
func Success(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
