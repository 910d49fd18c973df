// Package ticket is the client for the ticketing collaborator that stores
// change proposals: GitHub issues on the registry repository. The pipeline
// consumes search by title substring, create, comment, and reopen+relabel,
// plus paginated listing for issue-URL backfill.
package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

// DefaultBaseURL is the GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Ticket is one proposal thread.
type Ticket struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	State       string     `json:"state"`
	HTMLURL     string     `json:"html_url"`
	PullRequest *struct{}  `json:"pull_request,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsPullRequest reports whether this thread is a pull request rather than a
// proposal issue.
func (t *Ticket) IsPullRequest() bool {
	return t.PullRequest != nil
}

// Comment is one follow-up on a proposal thread.
type Comment struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Title renders the proposal title convention used both for creation and
// for idempotent lookup of repeated proposals for the same record.
func Title(name, spotifyID string) string {
	return fmt.Sprintf("%s (%s)", name, spotifyID)
}

// CandidateTexts orders proposal texts for payload extraction: follow-up
// comments newest first, the original body last.
func CandidateTexts(body string, comments []Comment) []string {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	texts := make([]string, 0, len(sorted)+1)
	for _, c := range sorted {
		texts = append(texts, c.Body)
	}
	return append(texts, body)
}

// Client talks to the ticketing API for one repository ("owner/name").
type Client struct {
	http    *http.Client
	baseURL string
	repo    string
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the API token used for authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a ticketing client for the given repository.
func New(repo string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		baseURL: DefaultBaseURL,
		repo:    repo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchByTitle returns tickets in any state whose title contains the query.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]Ticket, error) {
	q := fmt.Sprintf("repo:%s in:title %q", c.repo, query)
	endpoint := "/search/issues?q=" + url.QueryEscape(q)

	var result struct {
		Items []Ticket `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	// The search index matches loosely; keep only true substring hits on
	// non-PR threads.
	var tickets []Ticket
	for _, t := range result.Items {
		if t.IsPullRequest() {
			continue
		}
		if strings.Contains(t.Title, query) {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

// Create opens a new proposal thread.
func (c *Client) Create(ctx context.Context, title, body string, labels []string) (*Ticket, error) {
	payload := map[string]any{
		"title":  title,
		"body":   body,
		"labels": labels,
	}

	var created Ticket
	endpoint := fmt.Sprintf("/repos/%s/issues", c.repo)
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AddComment appends a follow-up to an existing thread.
func (c *Client) AddComment(ctx context.Context, number int, body string) error {
	endpoint := fmt.Sprintf("/repos/%s/issues/%d/comments", c.repo, number)
	return c.do(ctx, http.MethodPost, endpoint, map[string]any{"body": body}, nil)
}

// ReopenAndRelabel reopens a closed thread and replaces its labels.
func (c *Client) ReopenAndRelabel(ctx context.Context, number int, labels []string) error {
	endpoint := fmt.Sprintf("/repos/%s/issues/%d", c.repo, number)
	payload := map[string]any{
		"state":  "open",
		"labels": labels,
	}
	return c.do(ctx, http.MethodPatch, endpoint, payload, nil)
}

// Comments returns every follow-up on a thread.
func (c *Client) Comments(ctx context.Context, number int) ([]Comment, error) {
	endpoint := fmt.Sprintf("/repos/%s/issues/%d/comments?per_page=100", c.repo, number)
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListAll returns every ticket in the repository regardless of state,
// following pagination. Pull requests are excluded.
func (c *Client) ListAll(ctx context.Context) ([]Ticket, error) {
	var all []Ticket
	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("/repos/%s/issues?state=all&per_page=100&page=%d", c.repo, page)
		var batch []Ticket
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &batch); err != nil {
			return nil, err
		}
		for _, t := range batch {
			if !t.IsPullRequest() {
				all = append(all, t)
			}
		}
		if len(batch) < 100 {
			return all, nil
		}
	}
}

// do performs one API call, encoding payload as JSON when present and
// decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.WrapParse("json", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return &errors.APIError{Host: c.baseURL, Endpoint: endpoint, Message: "building request", Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.APIError{Host: c.baseURL, Endpoint: endpoint, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &errors.APIError{
			Host:       c.baseURL,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errors.APIError{Host: c.baseURL, Endpoint: endpoint, Message: "decoding response", Err: err}
	}
	return nil
}
