package artists

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackSlug is used when a name contains no characters that survive
// slugification, so that every record still gets a contract-valid ID.
const FallbackSlug = "artist"

// asciiFold decomposes accented letters and strips their combining marks,
// so "Björk" folds to "Bjork" before the ASCII filter runs.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe record ID from an artist name. Accented
// letters are folded to their ASCII base; lowercase letters and digits are
// kept; every other run of characters becomes a single hyphen; leading and
// trailing hyphens are dropped. A name with nothing left after folding
// yields FallbackSlug.
func Slugify(name string) string {
	if folded, _, err := transform.String(asciiFold, name); err == nil {
		name = folded
	}

	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return FallbackSlug
	}
	return slug
}

// UniqueSlug derives a record ID from name and disambiguates collisions
// against taken by appending an incrementing counter, starting at 2.
func UniqueSlug(name string, taken map[string]bool) string {
	slug := Slugify(name)
	if !taken[slug] {
		return slug
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
