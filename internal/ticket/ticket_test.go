package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoundbyte/soulbase/pkg/errors"
)

func TestTitle(t *testing.T) {
	assert.Equal(t, "Daft Punk (4tZwfgrHOc3mvqYlEYSvVi)", Title("Daft Punk", "4tZwfgrHOc3mvqYlEYSvVi"))
}

func TestCandidateTextsNewestCommentFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	comments := []Comment{
		{Body: "oldest", CreatedAt: base},
		{Body: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{Body: "middle", CreatedAt: base.Add(time.Hour)},
	}

	texts := CandidateTexts("original body", comments)
	assert.Equal(t, []string{"newest", "middle", "oldest", "original body"}, texts)
}

func TestCandidateTextsBodyOnly(t *testing.T) {
	assert.Equal(t, []string{"just the body"}, CandidateTexts("just the body", nil))
}

func TestSearchByTitleFiltersLooseMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("q"), "repo:xoundbyte/soul-over-ai")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"number": 1, "title": "Daft Punk (4tZwfgrHOc3mvqYlEYSvVi)", "state": "closed"},
				{"number": 2, "title": "Unrelated artist", "state": "open"},
				{"number": 3, "title": "PR touching (4tZwfgrHOc3mvqYlEYSvVi)", "pull_request": map[string]any{}},
			},
		})
	}))
	defer srv.Close()

	c := New("xoundbyte/soul-over-ai", WithBaseURL(srv.URL))
	tickets, err := c.SearchByTitle(context.Background(), "(4tZwfgrHOc3mvqYlEYSvVi)")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, 1, tickets[0].Number)
}

func TestCreateSendsAuthAndPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/xoundbyte/soul-over-ai/issues", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Daft Punk (4tZwfgrHOc3mvqYlEYSvVi)", payload["title"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"number":   42,
			"title":    payload["title"],
			"html_url": "https://github.com/xoundbyte/soul-over-ai/issues/42",
		})
	}))
	defer srv.Close()

	c := New("xoundbyte/soul-over-ai", WithBaseURL(srv.URL), WithToken("tok"))
	created, err := c.Create(context.Background(), "Daft Punk (4tZwfgrHOc3mvqYlEYSvVi)", "body", []string{"add"})
	require.NoError(t, err)
	assert.Equal(t, 42, created.Number)
	assert.Equal(t, "https://github.com/xoundbyte/soul-over-ai/issues/42", created.HTMLURL)
}

func TestReopenAndRelabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/repos/xoundbyte/soul-over-ai/issues/7", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "open", payload["state"])

		_ = json.NewEncoder(w).Encode(map[string]any{"number": 7, "state": "open"})
	}))
	defer srv.Close()

	c := New("xoundbyte/soul-over-ai", WithBaseURL(srv.URL))
	require.NoError(t, c.ReopenAndRelabel(context.Background(), 7, []string{"update"}))
}

func TestListAllFollowsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			items := make([]map[string]any, 100)
			for i := range items {
				items[i] = map[string]any{"number": i + 1, "title": fmt.Sprintf("Artist %d", i+1)}
			}
			_ = json.NewEncoder(w).Encode(items)
		case "2":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"number": 101, "title": "Artist 101"},
				{"number": 102, "title": "A pull request", "pull_request": map[string]any{}},
			})
		default:
			t.Fatalf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	c := New("xoundbyte/soul-over-ai", WithBaseURL(srv.URL))
	all, err := c.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 101, "pull requests are excluded")
	assert.Equal(t, 101, all[100].Number)
}

func TestAPIErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	c := New("xoundbyte/soul-over-ai", WithBaseURL(srv.URL))
	_, err := c.Comments(context.Background(), 1)
	require.Error(t, err)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Bad credentials")
}
