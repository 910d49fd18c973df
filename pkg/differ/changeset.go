// Package differ provides change detection between an existing artist
// record and a proposed patch.
package differ

import (
	"fmt"
	"strings"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string // Field path (e.g. "markers")
	OldValue string // Previous value (string representation)
	NewValue string // New value (string representation)
}

// Changeset represents the minimal set of changed fields for one record.
// The record ID is always carried as the key but is never itself diffed.
type Changeset struct {
	ID      string        // ID of the record being patched
	Changes []FieldChange // Detailed list of field changes, in canonical field order

	// fields holds the normalized new values of changed fields, keyed by
	// field name, for downstream application.
	fields map[string]any
}

// IsEmpty returns true if the changeset contains no changes. An empty
// changeset makes the enclosing update a no-op.
func (c *Changeset) IsEmpty() bool {
	return len(c.Changes) == 0
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return len(c.Changes) > 0
}

// Fields returns the normalized new values of the changed fields plus the
// record key, as a machine-readable patch for downstream application.
func (c *Changeset) Fields() map[string]any {
	out := make(map[string]any, len(c.fields)+1)
	out["id"] = c.ID
	for k, v := range c.fields {
		out[k] = v
	}
	return out
}

// Value returns the normalized new value of a changed field.
func (c *Changeset) Value(field string) (any, bool) {
	v, ok := c.fields[field]
	return v, ok
}

// SetValue replaces the new value of an already-changed field. It is used
// when a value needs post-diff substitution, such as a resolved handle.
// Fields not already in the changeset are ignored.
func (c *Changeset) SetValue(field string, value any) {
	if _, ok := c.fields[field]; !ok {
		return
	}
	c.fields[field] = value
	for i := range c.Changes {
		if c.Changes[i].Path == field {
			c.Changes[i].NewValue = truncateString(serialize(value), 80)
		}
	}
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return fmt.Sprintf("%s: no changes detected", c.ID)
	}

	parts := make([]string, len(c.Changes))
	for i, change := range c.Changes {
		parts[i] = fmt.Sprintf("%s: %s → %s", change.Path, change.OldValue, change.NewValue)
	}
	return fmt.Sprintf("%s: %s", c.ID, strings.Join(parts, "; "))
}
