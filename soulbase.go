// Package soulbase is the record reconciliation pipeline behind the artist
// AI-disclosure registry. It turns human change proposals into validated
// per-record files and compiles those files into the published dataset.
//
// The Registry type ties the pieces together: the per-record file store,
// the validation and uniqueness gate, the mutation executors, and the
// ticketing collaborator that carries change proposals.
//
// Example usage:
//
//	reg, err := soulbase.New(
//	    soulbase.WithRecordsDir("src"),
//	    soulbase.WithArtifactPath("dist/artists.json"),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := reg.Compile()
package soulbase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/xoundbyte/soulbase/internal/mutate"
	"github.com/xoundbyte/soulbase/internal/resolver"
	"github.com/xoundbyte/soulbase/internal/store"
	"github.com/xoundbyte/soulbase/internal/ticket"
	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
	"github.com/xoundbyte/soulbase/pkg/logging"
)

// Registry is the entry point for all pipeline operations against one
// records directory. A single run owns the directory exclusively.
type Registry struct {
	store        *store.Store
	artifactPath string
	executor     *mutate.Executor
	tickets      *ticket.Client
	resolver     resolver.Resolver
}

// Option is a functional option for configuring a Registry.
type Option func(*Registry)

// WithRecordsDir sets the per-record files directory.
func WithRecordsDir(dir string) Option {
	return func(r *Registry) {
		r.store = store.New(dir)
	}
}

// WithArtifactPath sets the compiled artifact path.
func WithArtifactPath(path string) Option {
	return func(r *Registry) {
		r.artifactPath = path
	}
}

// WithTickets sets the ticketing client used for change-proposal threads
// and issue backfill. Without it, ticket operations fail with a
// configuration error.
func WithTickets(c *ticket.Client) Option {
	return func(r *Registry) {
		r.tickets = c
	}
}

// WithResolver overrides the handle resolver used by mutations.
func WithResolver(res resolver.Resolver) Option {
	return func(r *Registry) {
		r.resolver = res
	}
}

// New creates a Registry with the given options.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		store:        store.New(constants.DefaultRecordsDir),
		artifactPath: constants.DefaultArtifactPath,
		resolver:     resolver.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.executor = mutate.New(r.store, mutate.WithResolver(r.resolver))
	return r, nil
}

// Store returns the underlying record store.
func (r *Registry) Store() *store.Store {
	return r.store
}

// Compile validates every record file and writes the aggregate artifact.
// The write is all-or-nothing: any per-file error fails the run and leaves
// the previous artifact untouched.
func (r *Registry) Compile() (*store.Report, error) {
	return store.NewCompiler(r.store).CompileTo(r.artifactPath)
}

// Validate runs compilation without writing the artifact, reporting every
// per-file violation.
func (r *Registry) Validate() *store.Report {
	_, report := store.NewCompiler(r.store).Compile()
	return report
}

// Migrate renames legacy field keys across all record files.
func (r *Registry) Migrate() (*store.MigrateReport, error) {
	return r.store.Migrate()
}

// Add executes an add mutation from the given proposal texts.
func (r *Registry) Add(ctx context.Context, texts ...string) (*mutate.Result, error) {
	return r.executor.Add(ctx, texts...)
}

// Update executes an update mutation from the given proposal texts.
func (r *Registry) Update(ctx context.Context, texts ...string) (*mutate.Result, error) {
	return r.executor.Update(ctx, texts...)
}

// Remove executes a remove mutation from the given proposal texts.
func (r *Registry) Remove(ctx context.Context, texts ...string) (*mutate.Result, error) {
	return r.executor.Remove(ctx, texts...)
}

// Propose files a change-proposal thread idempotently. An existing thread
// with the same title gets the payload as a comment instead of a duplicate
// thread; a closed thread is reopened and relabeled first.
func (r *Registry) Propose(ctx context.Context, title, body string, labels []string) (*ticket.Ticket, error) {
	if r.tickets == nil {
		return nil, &errors.ConfigError{Component: "tickets", Message: "no ticketing client configured"}
	}

	found, err := r.tickets.SearchByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		created, err := r.tickets.Create(ctx, title, body, labels)
		if err != nil {
			return nil, err
		}
		logging.Info().Int("ticket", created.Number).Str("title", title).Msg("Filed proposal")
		return created, nil
	}

	t := found[0]
	if t.State != "open" {
		if err := r.tickets.ReopenAndRelabel(ctx, t.Number, labels); err != nil {
			return nil, err
		}
	}
	if err := r.tickets.AddComment(ctx, t.Number, body); err != nil {
		return nil, err
	}
	logging.Info().Int("ticket", t.Number).Str("title", title).Msg("Merged proposal into existing thread")
	return &t, nil
}

// BackfillReport summarizes one issue-URL backfill run.
type BackfillReport struct {
	Updated   int // records whose issue field was written
	Skipped   int // records already carrying the right URL
	Unmatched int // records with no matching proposal thread
}

// titleID extracts the platform identifier from a proposal title following
// the "{name} ({spotifyId})" convention.
var titleID = regexp.MustCompile(fmt.Sprintf(`\(([a-zA-Z0-9]{%d})\)\s*$`, constants.SpotifyIDLength))

// BackfillIssues walks every proposal thread, matches threads to records by
// the platform identifier embedded in the thread title, and writes the
// newest matching thread URL into each record's issue field. Records
// already carrying the right URL are left untouched.
func (r *Registry) BackfillIssues(ctx context.Context) (*BackfillReport, error) {
	if r.tickets == nil {
		return nil, &errors.ConfigError{Component: "tickets", Message: "no ticketing client configured"}
	}

	all, err := r.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Newest thread wins when a record has several proposals.
	byID := make(map[string]ticket.Ticket)
	for _, t := range all {
		m := titleID.FindStringSubmatch(t.Title)
		if m == nil {
			continue
		}
		id := m[1]
		if prev, ok := byID[id]; !ok || t.CreatedAt.After(prev.CreatedAt) {
			byID[id] = t
		}
	}

	records, err := r.store.Snapshot()
	if err != nil {
		return nil, err
	}

	report := &BackfillReport{}
	for i := range records {
		rec := &records[i]
		if rec.Spotify == nil {
			report.Unmatched++
			continue
		}
		t, ok := byID[*rec.Spotify]
		if !ok {
			report.Unmatched++
			continue
		}
		if rec.Issue != nil && *rec.Issue == t.HTMLURL {
			report.Skipped++
			continue
		}

		url := t.HTMLURL
		rec.Issue = &url
		if err := r.store.Write(rec); err != nil {
			return report, err
		}
		logging.Info().Str("id", rec.ID).Str("issue", url).Msg("Backfilled issue URL")
		report.Updated++
	}
	return report, nil
}
