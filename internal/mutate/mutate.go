// Package mutate executes the three record mutations: add, update, and
// remove. Each mutation is a small state machine that extracts a structured
// payload, validates it, and writes at most one file. Any failure is
// terminal for the run; there are no retries and no partial writes.
package mutate

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/xoundbyte/soulbase/internal/extract"
	"github.com/xoundbyte/soulbase/internal/gate"
	"github.com/xoundbyte/soulbase/internal/normalize"
	"github.com/xoundbyte/soulbase/internal/resolver"
	"github.com/xoundbyte/soulbase/internal/schema"
	"github.com/xoundbyte/soulbase/internal/store"
	"github.com/xoundbyte/soulbase/internal/utils/ptr"
	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/differ"
	"github.com/xoundbyte/soulbase/pkg/errors"
	"github.com/xoundbyte/soulbase/pkg/logging"
)

// State is a mutation run's position in its state machine.
type State string

// Mutation states. Failed is absorbing: it is reachable from any prior
// state and terminal for the run.
const (
	StateExtracting State = "extracting"
	StateValidating State = "validating"
	StateWriting    State = "writing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Output is one machine-readable key-value pair emitted by a successful run
// for the orchestrating caller.
type Output struct {
	Key   string
	Value string
}

// Result is the outcome of one mutation run.
type Result struct {
	State   State
	Outputs []Output

	// Record is the record written (add, update) or deleted (remove).
	Record *artists.Artist

	// NoOp is true when an update's changed-field set was empty: nothing
	// was written and the run still succeeded.
	NoOp bool

	// Changeset carries an update's changed fields. Its Fields() map is the
	// notification payload: the changed fields plus the record key.
	Changeset *differ.Changeset
}

// Executor runs mutations against a record store.
type Executor struct {
	store    *store.Store
	gate     *gate.Gate
	contract *schema.Contract
	resolver resolver.Resolver
}

// Option configures an Executor.
type Option func(*Executor)

// WithResolver overrides the handle resolver.
func WithResolver(r resolver.Resolver) Option {
	return func(e *Executor) {
		e.resolver = r
	}
}

// New creates an Executor over the given store.
func New(s *store.Store, opts ...Option) *Executor {
	e := &Executor{
		store:    s,
		gate:     gate.New(),
		contract: schema.MustLoad(),
		resolver: resolver.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add extracts a new-record payload from the candidate texts, validates it
// against the schema and the uniqueness gate, assigns a collision-free ID,
// and writes the per-record file.
func (e *Executor) Add(ctx context.Context, texts ...string) (*Result, error) {
	payload, err := extract.Payload(texts...)
	if err != nil {
		return failed(err)
	}

	fields := normalize.Fields(payload, e.contract)
	normalize.ApplyListDefaults(fields, e.contract)

	name, _ := fields["name"].(string)
	if name == "" {
		return failed(errors.NewValidationError("name", nil, "is required"))
	}

	candidate := recordFromFields(fields)
	candidate.Name = name
	candidate.DateAdded = utc.Now()
	candidate.DateUpdated = nil

	if candidate.Spotify != nil && resolver.IsHandle(*candidate.Spotify) {
		id, err := e.resolver.Resolve(ctx, *candidate.Spotify)
		if err != nil {
			return failed(err)
		}
		candidate.Spotify = &id
	}

	taken, err := e.store.TakenIDs()
	if err != nil {
		return failed(err)
	}
	candidate.ID = artists.UniqueSlug(name, taken)

	existing, err := e.store.Snapshot()
	if err != nil {
		return failed(err)
	}
	if err := e.gate.CheckAdd(candidate, existing); err != nil {
		return failed(err)
	}

	if err := e.store.Write(candidate); err != nil {
		return &Result{State: StateFailed}, err
	}

	logging.Info().Str("id", candidate.ID).Str("name", candidate.Name).Msg("Added record")
	return &Result{
		State:  StateDone,
		Record: candidate,
		Outputs: []Output{
			{Key: "filename", Value: e.store.Filename(candidate.ID)},
			{Key: "recordName", Value: candidate.Name},
			{Key: "proposedBranchName", Value: "add-artist/" + candidate.ID},
		},
	}, nil
}

// Update extracts a partial patch, diffs it against the existing record over
// the updatable field set, and applies the changed fields. An empty
// changed-field set is a successful no-op with no write. A handle-shaped
// changed spotify value is resolved once before application.
func (e *Executor) Update(ctx context.Context, texts ...string) (*Result, error) {
	payload, err := extract.Payload(texts...)
	if err != nil {
		return failed(err)
	}

	id, _ := payload["id"].(string)
	if id == "" {
		return failed(errors.NewValidationError("id", nil, "is required"))
	}

	existing, err := e.store.Load(id)
	if err != nil {
		return failed(err)
	}

	d := differ.New(differ.WithAllowedFields(e.contract.UpdatableFields()))
	changeset := d.Record(existing, payload)
	if changeset.IsEmpty() {
		logging.Info().Str("id", id).Msg("No changes detected")
		return &Result{State: StateDone, NoOp: true, Record: existing, Changeset: changeset}, nil
	}

	if v, ok := changeset.Value("spotify"); ok {
		if handle, ok := v.(string); ok && resolver.IsHandle(handle) {
			resolved, err := e.resolver.Resolve(ctx, handle)
			if err != nil {
				return failed(err)
			}
			changeset.SetValue("spotify", resolved)
		}
	}

	updated := *existing
	applyFields(&updated, changeset.Fields())
	now := utc.Now()
	updated.DateUpdated = &now

	if err := e.gate.Check(&updated); err != nil {
		return failed(err)
	}

	if err := e.store.Write(&updated); err != nil {
		return &Result{State: StateFailed}, err
	}

	logging.Info().Str("id", id).Int("fields", len(changeset.Changes)).Msg("Updated record")
	return &Result{
		State:     StateDone,
		Record:    &updated,
		Changeset: changeset,
		Outputs: []Output{
			{Key: "filename", Value: e.store.Filename(id)},
			{Key: "recordName", Value: updated.Name},
			{Key: "proposedBranchName", Value: "update-artist/" + id},
		},
	}, nil
}

// Remove extracts an {id, reason?} payload and hard-deletes the per-record
// file. A missing record fails with a typed not-found error and performs no
// filesystem mutation.
func (e *Executor) Remove(ctx context.Context, texts ...string) (*Result, error) {
	payload, err := extract.Payload(texts...)
	if err != nil {
		return failed(err)
	}

	id, _ := payload["id"].(string)
	if id == "" {
		return failed(errors.NewValidationError("id", nil, "is required"))
	}

	existing, err := e.store.Load(id)
	if err != nil {
		return failed(err)
	}

	if err := e.store.Delete(id); err != nil {
		return &Result{State: StateFailed}, err
	}

	reason, _ := payload["reason"].(string)
	ev := logging.Info().Str("id", id)
	if reason != "" {
		ev = ev.Str("reason", reason)
	}
	ev.Msg("Removed record")

	return &Result{
		State:  StateDone,
		Record: existing,
		Outputs: []Output{
			{Key: "filename", Value: e.store.Filename(id)},
			{Key: "id", Value: id},
			{Key: "recordName", Value: existing.Name},
			{Key: "proposedBranchName", Value: "remove-artist/" + id},
		},
	}, nil
}

func failed(err error) (*Result, error) {
	return &Result{State: StateFailed}, err
}

// recordFromFields builds a candidate record from normalized payload fields.
// The caller owns ID, name, and timestamps.
func recordFromFields(fields map[string]any) *artists.Artist {
	a := &artists.Artist{
		DisclosureTypes: []artists.DisclosureType{},
		Markers:         []artists.Marker{},
		URLs:            []artists.URLEntry{},
	}
	applyFields(a, fields)
	if a.DisclosureStatus == "" {
		a.DisclosureStatus = artists.DisclosureNone
	}
	return a
}

// applyFields writes normalized field values onto a record. Unknown keys and
// the record key itself are ignored.
func applyFields(a *artists.Artist, fields map[string]any) {
	for name, v := range fields {
		switch name {
		case "name":
			if s, ok := v.(string); ok {
				a.Name = s
			}
		case "spotify", "apple", "amazon", "youtube", "tiktok", "instagram":
			a.SetPlatform(name, optString(v))
		case "disclosure":
			if s, ok := v.(string); ok {
				a.DisclosureStatus = artists.Disclosure(s)
			}
		case "disclosureNotes":
			a.DisclosureNotes = optString(v)
		case "disclosureTypes":
			if list, ok := v.([]string); ok {
				a.DisclosureTypes = make([]artists.DisclosureType, len(list))
				for i, s := range list {
					a.DisclosureTypes[i] = artists.DisclosureType(s)
				}
			}
		case "markers":
			if list, ok := v.([]string); ok {
				a.Markers = make([]artists.Marker, len(list))
				for i, s := range list {
					a.Markers[i] = artists.Marker(s)
				}
			}
		case "markerNotes":
			a.MarkerNotes = optString(v)
		case "urls":
			if entries, ok := v.([]artists.URLEntry); ok {
				a.URLs = entries
			}
		case "issue":
			a.Issue = optString(v)
		}
	}
}

func optString(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return ptr.String(s)
	}
	return nil
}
