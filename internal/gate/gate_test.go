package gate

import (
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

func candidate(spotify string) *artists.Artist {
	a := &artists.Artist{
		ID:               "new-artist",
		Name:             "New Artist",
		DisclosureStatus: artists.DisclosureNone,
		DisclosureTypes:  []artists.DisclosureType{},
		Markers:          []artists.Marker{},
		URLs:             []artists.URLEntry{},
		DateAdded:        utc.Now(),
	}
	if spotify != "" {
		a.Spotify = &spotify
	}
	return a
}

func snapshot() []artists.Artist {
	taken := "4tZwfgrHOc3mvqYlEYSvVi"
	removed := "1vCWHaC5f2uS3yhpwWbIA6"
	return []artists.Artist{
		{ID: "daft-punk", Name: "Daft Punk", Spotify: &taken},
		{ID: "gone", Name: "Gone", Spotify: &removed, Removed: true},
	}
}

func TestCheckAddAccepts(t *testing.T) {
	g := New()
	err := g.CheckAdd(candidate("6szFzOIDTslraMoaZDIbMJ"), snapshot())
	assert.NoError(t, err)
}

func TestCheckAddRejectsDuplicateSpotify(t *testing.T) {
	g := New()
	err := g.CheckAdd(candidate("4tZwfgrHOc3mvqYlEYSvVi"), snapshot())
	require.Error(t, err)
	assert.True(t, errors.IsDuplicate(err))

	var uniq *errors.UniquenessError
	require.ErrorAs(t, err, &uniq)
	assert.Equal(t, "spotify", uniq.Field)
	assert.Equal(t, "daft-punk", uniq.ExistingID)
}

func TestCheckAddIgnoresRemovedRecords(t *testing.T) {
	g := New()
	// Identifier held only by a tombstone is free for reuse.
	err := g.CheckAdd(candidate("1vCWHaC5f2uS3yhpwWbIA6"), snapshot())
	assert.NoError(t, err)
}

func TestCheckAddReportsSchemaAndUniquenessTogether(t *testing.T) {
	g := New()
	bad := candidate("4tZwfgrHOc3mvqYlEYSvVi")
	bad.Markers = nil

	err := g.CheckAdd(bad, snapshot())
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err), "schema violation must be reported")
	assert.True(t, errors.IsDuplicate(err), "uniqueness conflict must be reported")
}

func TestCheckAddExactStringComparison(t *testing.T) {
	g := New()
	// Case differs: uniqueness comparison is exact, no case folding.
	err := g.CheckAdd(candidate("4TZWFGRHOC3MVQYLEYSVVI"), snapshot())
	assert.NoError(t, err)
}

func TestCheckSchemaOnly(t *testing.T) {
	g := New()
	bad := candidate("")
	bad.DisclosureStatus = "shrug"

	err := g.Check(bad)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}
