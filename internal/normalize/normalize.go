// Package normalize canonicalizes raw proposal fields before validation and
// diffing. Normalization is pure and never rejects: malformed input is
// coerced into canonical shape and left for the validation gate to judge.
package normalize

import (
	"strings"

	"github.com/xoundbyte/soulbase/internal/schema"
	"github.com/xoundbyte/soulbase/internal/utils/ptr"
	"github.com/xoundbyte/soulbase/pkg/artists"
)

// Fields normalizes every field present in raw, returning a new map. Keys
// absent from raw stay absent; use ApplyListDefaults to materialize the
// empty-list defaults required of a complete record.
func Fields(raw map[string]any, c *schema.Contract) map[string]any {
	out := make(map[string]any, len(raw))
	for name, v := range raw {
		out[name] = Value(name, v, c)
	}
	return out
}

// Value normalizes a single raw field value:
//   - strings are trimmed; an empty trimmed string becomes nil
//   - declared list fields are coerced to a canonical slice, with
//     comma-delimited strings split and elements trimmed
//   - absent or empty list values become empty slices, never nil
//   - the compound urls field yields structured entries, not strings
func Value(name string, v any, c *schema.Contract) any {
	if c.IsListField(name) {
		if name == "urls" {
			return urlEntries(v)
		}
		return stringList(v)
	}

	if s, ok := v.(string); ok {
		t := strings.TrimSpace(s)
		if t == "" {
			return nil
		}
		return t
	}
	return v
}

// ApplyListDefaults ensures every declared list field is present in fields,
// defaulting absent ones to empty slices.
func ApplyListDefaults(fields map[string]any, c *schema.Contract) {
	for _, name := range c.ListFields() {
		if _, ok := fields[name]; !ok {
			fields[name] = Value(name, nil, c)
		}
	}
}

// stringList coerces a raw value into a trimmed []string.
func stringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case string:
		return splitComma(val)
	case []string:
		out := make([]string, 0, len(val))
		for _, s := range val {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := e.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					out = append(out, t)
				}
			}
		}
		return out
	}
	return []string{}
}

// splitComma splits a comma-delimited string and trims each element. An
// empty-after-split value yields an empty list.
func splitComma(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// urlEntries coerces a raw urls value into structured entries. Bare strings
// become entries without notes; empty notes collapse to nil.
func urlEntries(v any) []artists.URLEntry {
	switch val := v.(type) {
	case nil:
		return []artists.URLEntry{}
	case []artists.URLEntry:
		out := make([]artists.URLEntry, 0, len(val))
		for _, e := range val {
			if entry, ok := normalizeEntry(e.URL, ptr.Deref(e.Notes)); ok {
				out = append(out, entry)
			}
		}
		return out
	case string:
		if entry, ok := normalizeEntry(val, ""); ok {
			return []artists.URLEntry{entry}
		}
		return []artists.URLEntry{}
	case []any:
		out := make([]artists.URLEntry, 0, len(val))
		for _, e := range val {
			switch elem := e.(type) {
			case string:
				if entry, ok := normalizeEntry(elem, ""); ok {
					out = append(out, entry)
				}
			case map[string]any:
				url, _ := elem["url"].(string)
				notes, _ := elem["notes"].(string)
				if entry, ok := normalizeEntry(url, notes); ok {
					out = append(out, entry)
				}
			}
		}
		return out
	}
	return []artists.URLEntry{}
}

func normalizeEntry(url, notes string) (artists.URLEntry, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return artists.URLEntry{}, false
	}
	entry := artists.URLEntry{URL: url}
	if n := strings.TrimSpace(notes); n != "" {
		entry.Notes = &n
	}
	return entry, true
}
