package differ

import (
	"encoding/json"
	"fmt"

	"github.com/xoundbyte/soulbase/internal/normalize"
	"github.com/xoundbyte/soulbase/internal/schema"
	"github.com/xoundbyte/soulbase/pkg/artists"
)

// Differ handles change detection between a record and a proposed patch.
type Differ interface {
	// Record compares an existing record against a raw patch and returns
	// the minimal changed-field set. Patch values are normalized before
	// comparison; fields outside the configured allow-list are ignored.
	Record(existing *artists.Artist, patch map[string]any) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	contract *schema.Contract

	// allowed restricts diffing to a fixed field set; nil allows every
	// contract field except the key.
	allowed map[string]bool

	ignoreFields map[string]bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		contract:     schema.MustLoad(),
		ignoreFields: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Option configures a Differ.
type Option func(*differ)

// WithAllowedFields restricts diffing to the given field names. Fields
// present in a patch but outside the allow-list are silently ignored.
func WithAllowedFields(fields []string) Option {
	return func(d *differ) {
		d.allowed = make(map[string]bool, len(fields))
		for _, f := range fields {
			d.allowed[f] = true
		}
	}
}

// WithIgnoreFields excludes the given fields from comparison.
func WithIgnoreFields(fields ...string) Option {
	return func(d *differ) {
		for _, f := range fields {
			d.ignoreFields[f] = true
		}
	}
}

// Record compares an existing record against a raw patch.
func (d *differ) Record(existing *artists.Artist, patch map[string]any) *Changeset {
	changeset := &Changeset{
		ID:      existing.ID,
		Changes: []FieldChange{},
		fields:  make(map[string]any),
	}

	// Walk contract fields in canonical order so changes report
	// deterministically regardless of patch map iteration.
	for _, name := range d.contract.RequiredFields() {
		if name == "id" {
			continue // the key is never diffed
		}
		raw, present := patch[name]
		if !present || d.ignoreFields[name] {
			continue
		}
		if d.allowed != nil && !d.allowed[name] {
			continue
		}

		normalized := normalize.Value(name, raw, d.contract)
		oldVal := existingValue(existing, name)

		oldSer := serialize(oldVal)
		newSer := serialize(normalized)
		if oldSer == newSer {
			continue
		}

		changeset.Changes = append(changeset.Changes, FieldChange{
			Path:     name,
			OldValue: truncateString(oldSer, 80),
			NewValue: truncateString(newSer, 80),
		})
		changeset.fields[name] = normalized
	}

	return changeset
}

// serialize renders a normalized value for comparison. Lists compare by
// exact-order serialized equality; element order is significant.
func serialize(v any) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// existingValue extracts a record's current value for the named field in a
// shape comparable against normalized patch values.
func existingValue(a *artists.Artist, name string) any {
	switch name {
	case "name":
		return a.Name
	case "spotify", "apple", "amazon", "youtube", "tiktok", "instagram":
		if v := a.Platform(name); v != nil {
			return *v
		}
		return nil
	case "disclosure":
		return string(a.DisclosureStatus)
	case "disclosureNotes":
		if a.DisclosureNotes != nil {
			return *a.DisclosureNotes
		}
		return nil
	case "disclosureTypes":
		out := make([]string, len(a.DisclosureTypes))
		for i, v := range a.DisclosureTypes {
			out[i] = string(v)
		}
		return out
	case "markers":
		out := make([]string, len(a.Markers))
		for i, v := range a.Markers {
			out[i] = string(v)
		}
		return out
	case "markerNotes":
		if a.MarkerNotes != nil {
			return *a.MarkerNotes
		}
		return nil
	case "urls":
		if a.URLs == nil {
			return []artists.URLEntry{}
		}
		return a.URLs
	case "issue":
		if a.Issue != nil {
			return *a.Issue
		}
		return nil
	case "removed":
		return a.Removed
	}
	return nil
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
