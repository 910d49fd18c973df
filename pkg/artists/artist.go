package artists

import (
	"github.com/agentstation/utc"
)

// Artist represents one artist's disclosure record. Struct field order is
// the canonical field order of per-record files and the compiled artifact.
type Artist struct {
	ID        string  `json:"id"`                  // URL-safe slug, unique, immutable once assigned
	Name      string  `json:"name"`                // Display name of the artist
	Spotify   *string `json:"spotify,omitempty"`   // Spotify artist ID
	Apple     *string `json:"apple,omitempty"`     // Apple Music artist ID
	Amazon    *string `json:"amazon,omitempty"`    // Amazon Music artist ID
	YouTube   *string `json:"youtube,omitempty"`   // YouTube channel ID
	TikTok    *string `json:"tiktok,omitempty"`    // TikTok handle
	Instagram *string `json:"instagram,omitempty"` // Instagram handle

	// Disclosure status and supporting evidence
	DisclosureStatus Disclosure       `json:"disclosure"`                // Enumerated disclosure status
	DisclosureNotes  *string          `json:"disclosureNotes,omitempty"` // Free-text notes on the disclosure
	DisclosureTypes  []DisclosureType `json:"disclosureTypes"`           // What the artist disclosed, never null
	Markers          []Marker         `json:"markers"`                   // Observed AI-usage markers, never null
	MarkerNotes      *string          `json:"markerNotes,omitempty"`     // Free-text notes on the markers
	URLs             []URLEntry       `json:"urls"`                      // Supporting links

	// Timestamps for record keeping and auditing
	DateAdded   utc.Time  `json:"dateAdded"`             // Set once at creation
	DateUpdated *utc.Time `json:"dateUpdated,omitempty"` // Last mutation, null until first update

	Issue   *string `json:"issue,omitempty"`   // URL of the proposal thread that created this record
	Removed bool    `json:"removed,omitempty"` // Soft-delete flag; tombstones stay on disk
}

// URLEntry is a supporting link with optional notes.
type URLEntry struct {
	URL   string  `json:"url"`
	Notes *string `json:"notes,omitempty"`
}

// Disclosure is the enumerated disclosure status of an artist.
type Disclosure string

// Disclosure status constants.
const (
	DisclosureNone    Disclosure = "none"    // No disclosure made
	DisclosurePartial Disclosure = "partial" // Some AI usage disclosed
	DisclosureFull    Disclosure = "full"    // Full disclosure of AI usage
	DisclosurePending Disclosure = "pending" // Disclosure requested, awaiting response
)

// Valid reports whether the disclosure status is a known value.
func (d Disclosure) Valid() bool {
	switch d {
	case DisclosureNone, DisclosurePartial, DisclosureFull, DisclosurePending:
		return true
	}
	return false
}

// String returns the string representation of a Disclosure.
func (d Disclosure) String() string {
	return string(d)
}

// DisclosureType is an enumerated tag describing what an artist disclosed.
type DisclosureType string

// DisclosureType constants.
const (
	DisclosureTypeVocals     DisclosureType = "vocals"
	DisclosureTypeLyrics     DisclosureType = "lyrics"
	DisclosureTypeProduction DisclosureType = "production"
	DisclosureTypeArtwork    DisclosureType = "artwork"
	DisclosureTypeVideo      DisclosureType = "video"
	DisclosureTypeMixing     DisclosureType = "mixing-mastering"
	DisclosureTypeOther      DisclosureType = "other"
)

// Valid reports whether the disclosure type is a known value.
func (d DisclosureType) Valid() bool {
	switch d {
	case DisclosureTypeVocals, DisclosureTypeLyrics, DisclosureTypeProduction,
		DisclosureTypeArtwork, DisclosureTypeVideo, DisclosureTypeMixing,
		DisclosureTypeOther:
		return true
	}
	return false
}

// Marker is an enumerated tag for an observed AI-usage indicator.
type Marker string

// Marker constants.
const (
	MarkerAIVocals       Marker = "ai-vocals"
	MarkerAILyrics       Marker = "ai-lyrics"
	MarkerAIProduction   Marker = "ai-production"
	MarkerAIArtwork      Marker = "ai-artwork"
	MarkerAIVideo        Marker = "ai-video"
	MarkerSyntheticVoice Marker = "synthetic-voice"
	MarkerFullyGenerated Marker = "fully-generated"
	MarkerSuspectedAI    Marker = "suspected-ai"
	MarkerOther          Marker = "other"
)

// Valid reports whether the marker is a known value.
func (m Marker) Valid() bool {
	switch m {
	case MarkerAIVocals, MarkerAILyrics, MarkerAIProduction, MarkerAIArtwork,
		MarkerAIVideo, MarkerSyntheticVoice, MarkerFullyGenerated,
		MarkerSuspectedAI, MarkerOther:
		return true
	}
	return false
}

// PlatformFields lists the external platform identifier fields in canonical
// order. The first four participate in uniqueness checks.
var PlatformFields = []string{"spotify", "apple", "amazon", "youtube", "tiktok", "instagram"}

// UniquePlatformFields lists the platform identifier fields subject to
// cross-record uniqueness enforcement on add.
var UniquePlatformFields = []string{"spotify", "apple", "amazon", "youtube"}

// Platform returns the value of the named platform identifier field, or nil
// when the record does not carry it.
func (a *Artist) Platform(field string) *string {
	switch field {
	case "spotify":
		return a.Spotify
	case "apple":
		return a.Apple
	case "amazon":
		return a.Amazon
	case "youtube":
		return a.YouTube
	case "tiktok":
		return a.TikTok
	case "instagram":
		return a.Instagram
	}
	return nil
}

// SetPlatform sets the named platform identifier field. Unknown fields are
// ignored.
func (a *Artist) SetPlatform(field string, value *string) {
	switch field {
	case "spotify":
		a.Spotify = value
	case "apple":
		a.Apple = value
	case "amazon":
		a.Amazon = value
	case "youtube":
		a.YouTube = value
	case "tiktok":
		a.TikTok = value
	case "instagram":
		a.Instagram = value
	}
}
