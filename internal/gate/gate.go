// Package gate validates candidate records against the schema contract and
// enforces platform-identifier uniqueness over the existing dataset. The
// existing records are an explicitly passed snapshot, loaded once per run,
// which keeps the gate pure and testable.
package gate

import (
	stderrors "errors"

	"github.com/xoundbyte/soulbase/internal/schema"
	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

// Gate checks candidate records before mutation.
type Gate struct {
	contract *schema.Contract
}

// New creates a Gate backed by the embedded schema contract.
func New() *Gate {
	return &Gate{contract: schema.MustLoad()}
}

// Check validates a candidate against the schema contract.
func (g *Gate) Check(candidate *artists.Artist) error {
	return g.contract.Validate(candidate)
}

// CheckAdd validates a candidate for an add operation: schema validation
// plus uniqueness of the candidate's platform identifiers across all
// non-removed existing records. Schema and uniqueness checks are
// independent; violations from both are evaluated and reported together.
func (g *Gate) CheckAdd(candidate *artists.Artist, existing []artists.Artist) error {
	var errs []error

	if err := g.contract.Validate(candidate); err != nil {
		errs = append(errs, err)
	}

	for _, field := range artists.UniquePlatformFields {
		value := candidate.Platform(field)
		if value == nil {
			continue
		}
		if holder := findHolder(existing, field, *value); holder != "" {
			errs = append(errs, errors.NewUniquenessError(field, *value, holder))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return stderrors.Join(errs...)
}

// findHolder returns the ID of the non-removed record already carrying the
// given platform identifier, or "" when the identifier is free. Comparison
// is exact string equality; the normalizer has already trimmed input.
func findHolder(existing []artists.Artist, field, value string) string {
	for i := range existing {
		if existing[i].Removed {
			continue
		}
		if v := existing[i].Platform(field); v != nil && *v == value {
			return existing[i].ID
		}
	}
	return ""
}
