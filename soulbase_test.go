package soulbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoundbyte/soulbase/internal/ticket"
	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(
		WithRecordsDir(t.TempDir()),
		WithArtifactPath(filepath.Join(t.TempDir(), "artists.json")),
	)
	require.NoError(t, err)
	return reg
}

func seedRecord(t *testing.T, reg *Registry, id, name, spotify string) {
	t.Helper()
	a := &artists.Artist{
		ID:               id,
		Name:             name,
		DisclosureStatus: artists.DisclosureNone,
		DisclosureTypes:  []artists.DisclosureType{},
		Markers:          []artists.Marker{},
		URLs:             []artists.URLEntry{},
		DateAdded:        utc.Now(),
	}
	if spotify != "" {
		a.Spotify = &spotify
	}
	require.NoError(t, reg.Store().Write(a))
}

func TestCompileWritesArtifact(t *testing.T) {
	reg := newRegistry(t)
	seedRecord(t, reg, "holly", "Holly", "")

	report, err := reg.Compile()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Compiled)

	data, err := os.ReadFile(reg.artifactPath)
	require.NoError(t, err)

	var compiled []artists.Artist
	require.NoError(t, json.Unmarshal(data, &compiled))
	require.Len(t, compiled, 1)
	assert.Equal(t, "holly", compiled[0].ID)
}

func TestValidateReportsWithoutWriting(t *testing.T) {
	reg := newRegistry(t)
	dir := reg.Store().Dir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	report := reg.Validate()
	assert.False(t, report.OK())

	_, statErr := os.Stat(reg.artifactPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProposeWithoutTicketsFails(t *testing.T) {
	reg := newRegistry(t)

	_, err := reg.Propose(context.Background(), "Holly (1AbCdEfGhIjKlMnOpQrStU)", "body", nil)
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestProposeCreatesWhenNoThreadExists(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/issues":
			_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
		case "/repos/xoundbyte/soul-over-ai/issues":
			created = true
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"number": 5})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	reg, err := New(
		WithRecordsDir(t.TempDir()),
		WithTickets(ticket.New("xoundbyte/soul-over-ai", ticket.WithBaseURL(srv.URL))),
	)
	require.NoError(t, err)

	filed, err := reg.Propose(context.Background(), "Holly (1AbCdEfGhIjKlMnOpQrStU)", "body", []string{"add"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 5, filed.Number)
}

func TestProposeReopensClosedThreadAndComments(t *testing.T) {
	var reopened, commented bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/issues":
			_ = json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{
				{"number": 9, "title": "Holly (1AbCdEfGhIjKlMnOpQrStU)", "state": "closed"},
			}})
		case r.URL.Path == "/repos/xoundbyte/soul-over-ai/issues/9" && r.Method == http.MethodPatch:
			reopened = true
			_ = json.NewEncoder(w).Encode(map[string]any{"number": 9, "state": "open"})
		case r.URL.Path == "/repos/xoundbyte/soul-over-ai/issues/9/comments":
			commented = true
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	reg, err := New(
		WithRecordsDir(t.TempDir()),
		WithTickets(ticket.New("xoundbyte/soul-over-ai", ticket.WithBaseURL(srv.URL))),
	)
	require.NoError(t, err)

	filed, err := reg.Propose(context.Background(), "Holly (1AbCdEfGhIjKlMnOpQrStU)", "body", []string{"update"})
	require.NoError(t, err)
	assert.True(t, reopened)
	assert.True(t, commented)
	assert.Equal(t, 9, filed.Number)
}

func TestBackfillIssuesWritesNewestMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			t.Fatalf("unexpected page %q", r.URL.Query().Get("page"))
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"number": 3, "title": "Holly (1AbCdEfGhIjKlMnOpQrStU)",
				"html_url":   "https://github.com/xoundbyte/soul-over-ai/issues/3",
				"created_at": "2025-02-01T00:00:00Z",
			},
			{
				"number": 1, "title": "Holly (1AbCdEfGhIjKlMnOpQrStU)",
				"html_url":   "https://github.com/xoundbyte/soul-over-ai/issues/1",
				"created_at": "2025-01-01T00:00:00Z",
			},
			{"number": 2, "title": "No identifier here"},
		})
	}))
	defer srv.Close()

	reg, err := New(
		WithRecordsDir(t.TempDir()),
		WithTickets(ticket.New("xoundbyte/soul-over-ai", ticket.WithBaseURL(srv.URL))),
	)
	require.NoError(t, err)
	seedRecord(t, reg, "holly", "Holly", "1AbCdEfGhIjKlMnOpQrStU")
	seedRecord(t, reg, "other", "Other", "")

	report, err := reg.BackfillIssues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Unmatched)

	got, err := reg.Store().Load("holly")
	require.NoError(t, err)
	require.NotNil(t, got.Issue)
	assert.Equal(t, "https://github.com/xoundbyte/soul-over-ai/issues/3", *got.Issue)
}

func TestBackfillIssuesSkipsCorrectURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"number": 3, "title": "Holly (1AbCdEfGhIjKlMnOpQrStU)",
				"html_url":   "https://github.com/xoundbyte/soul-over-ai/issues/3",
				"created_at": "2025-02-01T00:00:00Z",
			},
		})
	}))
	defer srv.Close()

	reg, err := New(
		WithRecordsDir(t.TempDir()),
		WithTickets(ticket.New("xoundbyte/soul-over-ai", ticket.WithBaseURL(srv.URL))),
	)
	require.NoError(t, err)
	seedRecord(t, reg, "holly", "Holly", "1AbCdEfGhIjKlMnOpQrStU")

	url := "https://github.com/xoundbyte/soul-over-ai/issues/3"
	a, err := reg.Store().Load("holly")
	require.NoError(t, err)
	a.Issue = &url
	require.NoError(t, reg.Store().Write(a))
	before, err := os.ReadFile(reg.Store().Path("holly"))
	require.NoError(t, err)

	report, err := reg.BackfillIssues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Skipped)

	after, err := os.ReadFile(reg.Store().Path("holly"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
