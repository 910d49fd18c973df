// Package resolver converts human-entered social handles into stable
// Spotify artist identifiers via the public artist page. Resolution happens
// at most once per mutation run; a failure aborts the enclosing mutation
// before any write.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

// HandlePrefix is the reserved marker character that makes a field value
// handle-shaped.
const HandlePrefix = "@"

// DefaultBaseURL is the endpoint serving public artist pages.
const DefaultBaseURL = "https://open.spotify.com"

// artistIDPattern extracts a bare artist identifier from a page body.
var artistIDPattern = regexp.MustCompile(fmt.Sprintf(`artist/([a-zA-Z0-9]{%d})`, constants.SpotifyIDLength))

// IsHandle reports whether a value is handle-shaped and needs resolution.
func IsHandle(s string) bool {
	return strings.HasPrefix(s, HandlePrefix)
}

// Resolver resolves a handle to a stable platform identifier.
type Resolver interface {
	Resolve(ctx context.Context, handle string) (string, error)
}

// Client is the HTTP-backed Resolver.
type Client struct {
	http    *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the resolution endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a resolver client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve looks up a handle and returns the artist identifier embedded in
// the response. It fails with a typed ResolutionError on network failure,
// a non-2xx status, or a body with no extractable identifier.
func (c *Client) Resolve(ctx context.Context, handle string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(handle), HandlePrefix)
	if name == "" {
		return "", &errors.ResolutionError{Handle: handle, Message: "empty handle"}
	}

	url := c.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &errors.ResolutionError{Handle: handle, Message: "building request", Err: err}
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &errors.ResolutionError{Handle: handle, Message: "lookup failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &errors.ResolutionError{
			Handle:     handle,
			StatusCode: resp.StatusCode,
			Message:    "unexpected status",
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errors.ResolutionError{Handle: handle, Message: "reading response", Err: err}
	}

	m := artistIDPattern.FindSubmatch(body)
	if m == nil {
		return "", &errors.ResolutionError{
			Handle:  handle,
			Message: "no artist identifier in response",
		}
	}
	return string(m[1]), nil
}
