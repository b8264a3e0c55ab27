// Package snapcircle provides a client for the SnapCircle event photo-sharing API.
package snapcircle

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request so a hung backend cannot leave a
// caller waiting forever.
const DefaultTimeout = 30 * time.Second

// Client represents a client for the SnapCircle API.
type Client struct {
	rootURL   string // server root, used for resolving relative photo paths
	parsedURL *url.URL
	token     string
	http      *http.Client

	// onUnauthorized is invoked whenever the backend rejects the bearer
	// token with a 401. Token invalidation is global: the hook lets the
	// caller clear persisted credentials before the error propagates.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithToken sets an existing bearer token on the client.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a new SnapCircle client for the given server root URL
// (e.g. "http://localhost:8000"). API endpoints live under "/api".
func New(rawURL string, opts ...Option) (*Client, error) {
	rawURL = strings.TrimRight(rawURL, "/")
	parsed, err := url.Parse(rawURL + "/api")
	if err != nil {
		return nil, fmt.Errorf("invalid SnapCircle URL: %w", err)
	}
	c := &Client{
		rootURL:   rawURL,
		parsedURL: parsed,
		http:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveURL builds a full URL from the base API URL and the given path segments.
// If the last segment contains a query string, it is split so JoinPath only
// receives the path portion and the query is appended.
func (c *Client) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return c.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := c.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return c.parsedURL.JoinPath(pathSegments...).String()
}

// Token returns the current bearer token, empty if unauthenticated.
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ClearToken drops the bearer token. Subsequent requests are anonymous.
func (c *Client) ClearToken() {
	c.token = ""
}

// Authenticated reports whether the client carries a bearer token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// OnUnauthorized registers a hook called when any request comes back 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// CanonicalCode normalizes an event code to its canonical uppercase form.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
