// Package schema holds the declarative structural contract that every
// artist record and change proposal must satisfy. The contract itself is
// pure data, embedded from contract.yaml; this package exposes it plus a
// validator over parsed records.
package schema

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

//go:embed contract.yaml
var contractYAML []byte

// Field describes one field of the record contract.
type Field struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"` // string, list, timestamp, bool
	Required  bool     `yaml:"required"`
	Nullable  bool     `yaml:"nullable"`
	Updatable bool     `yaml:"updatable"`
	Format    string   `yaml:"format"`  // slug, url, spotify-id
	Enum      []string `yaml:"enum"`    // allowed values (list elements for type list)
	Element   string   `yaml:"element"` // structured element kind for compound lists
}

// Contract is the parsed structural contract.
type Contract struct {
	Fields []Field `yaml:"fields"`

	byName map[string]*Field
}

var (
	loadOnce sync.Once
	loaded   *Contract
	loadErr  error
)

// Load parses the embedded contract. The result is cached; the contract is
// immutable for the lifetime of a run.
func Load() (*Contract, error) {
	loadOnce.Do(func() {
		var c Contract
		if err := yaml.Unmarshal(contractYAML, &c); err != nil {
			loadErr = errors.WrapParse("yaml", "contract.yaml", err)
			return
		}
		c.byName = make(map[string]*Field, len(c.Fields))
		for i := range c.Fields {
			c.byName[c.Fields[i].Name] = &c.Fields[i]
		}
		loaded = &c
	})
	return loaded, loadErr
}

// MustLoad is Load for contexts where the embedded contract being unparsable
// is a programming error.
func MustLoad() *Contract {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// RequiredFields returns every field name in canonical order.
func (c *Contract) RequiredFields() []string {
	names := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the contract entry for name, or nil for unknown fields.
func (c *Contract) Field(name string) *Field {
	return c.byName[name]
}

// ListFields returns the names of list-valued fields in canonical order.
func (c *Contract) ListFields() []string {
	var names []string
	for _, f := range c.Fields {
		if f.Type == "list" {
			names = append(names, f.Name)
		}
	}
	return names
}

// UpdatableFields returns the fixed allow-list of fields an update proposal
// may change, in canonical order.
func (c *Contract) UpdatableFields() []string {
	var names []string
	for _, f := range c.Fields {
		if f.Updatable {
			names = append(names, f.Name)
		}
	}
	return names
}

// IsListField reports whether name is a declared list-valued field.
func (c *Contract) IsListField(name string) bool {
	f := c.byName[name]
	return f != nil && f.Type == "list"
}

var (
	slugPattern      = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)
	spotifyIDPattern = regexp.MustCompile(fmt.Sprintf(`^[a-zA-Z0-9]{%d}$`, constants.SpotifyIDLength))
)

// Validate checks a record against the contract. It returns nil when the
// record conforms, otherwise a ValidationErrors aggregating every violation
// in field order.
func (c *Contract) Validate(a *artists.Artist) error {
	var violations []*errors.ValidationError
	add := func(field string, value any, msg string) {
		violations = append(violations, errors.NewValidationError(field, value, msg))
	}

	if a.ID == "" {
		add("id", a.ID, "is required")
	} else if !slugPattern.MatchString(a.ID) {
		add("id", a.ID, "must be a URL-safe slug")
	}

	if strings.TrimSpace(a.Name) == "" {
		add("name", a.Name, "is required")
	} else if len(a.Name) > constants.MaxNameLength {
		add("name", a.Name, fmt.Sprintf("must be at most %d characters", constants.MaxNameLength))
	}

	if a.Spotify != nil && !spotifyIDPattern.MatchString(*a.Spotify) {
		add("spotify", *a.Spotify, "must be a 22-character Spotify artist ID")
	}

	if !a.DisclosureStatus.Valid() {
		add("disclosure", string(a.DisclosureStatus),
			"must be one of "+strings.Join(c.enumFor("disclosure"), ", "))
	}

	if a.DisclosureTypes == nil {
		add("disclosureTypes", nil, "must be an array")
	} else {
		for i, dt := range a.DisclosureTypes {
			if !dt.Valid() {
				add(fmt.Sprintf("disclosureTypes[%d]", i), string(dt),
					"must be one of "+strings.Join(c.enumFor("disclosureTypes"), ", "))
			}
		}
	}

	if a.Markers == nil {
		add("markers", nil, "must be an array")
	} else {
		for i, m := range a.Markers {
			if !m.Valid() {
				add(fmt.Sprintf("markers[%d]", i), string(m),
					"must be one of "+strings.Join(c.enumFor("markers"), ", "))
			}
		}
	}

	if a.URLs == nil {
		add("urls", nil, "must be an array")
	} else {
		for i, u := range a.URLs {
			if strings.TrimSpace(u.URL) == "" {
				add(fmt.Sprintf("urls[%d].url", i), u.URL, "is required")
			} else if !strings.HasPrefix(u.URL, "http://") && !strings.HasPrefix(u.URL, "https://") {
				add(fmt.Sprintf("urls[%d].url", i), u.URL, "must be an http(s) URL")
			}
		}
	}

	if a.DisclosureNotes != nil && len(*a.DisclosureNotes) > constants.MaxNotesLength {
		add("disclosureNotes", nil, fmt.Sprintf("must be at most %d characters", constants.MaxNotesLength))
	}
	if a.MarkerNotes != nil && len(*a.MarkerNotes) > constants.MaxNotesLength {
		add("markerNotes", nil, fmt.Sprintf("must be at most %d characters", constants.MaxNotesLength))
	}

	if a.DateAdded.IsZero() {
		add("dateAdded", nil, "is required")
	}

	if a.Issue != nil && !strings.HasPrefix(*a.Issue, "http://") && !strings.HasPrefix(*a.Issue, "https://") {
		add("issue", *a.Issue, "must be an http(s) URL")
	}

	if len(violations) == 0 {
		return nil
	}
	return &errors.ValidationErrors{Record: a.ID, Violations: violations}
}

// enumFor returns the allowed values declared for a field, empty for fields
// without an enum.
func (c *Contract) enumFor(name string) []string {
	if f := c.byName[name]; f != nil {
		return f.Enum
	}
	return nil
}
