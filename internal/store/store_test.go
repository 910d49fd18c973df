package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

func record(id, name string) *artists.Artist {
	return &artists.Artist{
		ID:               id,
		Name:             name,
		DisclosureStatus: artists.DisclosureNone,
		DisclosureTypes:  []artists.DisclosureType{},
		Markers:          []artists.Marker{},
		URLs:             []artists.URLEntry{},
		DateAdded:        utc.Now(),
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	a := record("daft-punk", "Daft Punk")
	require.NoError(t, s.Write(a))

	loaded, err := s.Load("daft-punk")
	require.NoError(t, err)
	assert.Equal(t, "Daft Punk", loaded.Name)
	assert.Equal(t, []artists.Marker{}, loaded.Markers)
}

func TestWriteCanonicalFormat(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Write(record("daft-punk", "Daft Punk")))

	data, err := os.ReadFile(s.Path("daft-punk"))
	require.NoError(t, err)

	text := string(data)
	assert.True(t, len(text) > 0 && text[len(text)-1] == '\n', "record files end with a newline")
	assert.Contains(t, text, "  \"id\": \"daft-punk\"", "two-space indentation")
	// id precedes name in canonical order
	assert.Less(t,
		indexOf(text, `"id"`), indexOf(text, `"name"`),
		"id must come before name")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestLoadMissingRecord(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Load("nobody")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteMissingRecord(t *testing.T) {
	s := New(t.TempDir())

	err := s.Delete("nobody")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteIsHard(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Write(record("daft-punk", "Daft Punk")))
	require.NoError(t, s.Delete("daft-punk"))

	assert.False(t, s.Exists("daft-punk"))
	_, err := os.Stat(s.Path("daft-punk"))
	assert.True(t, os.IsNotExist(err), "hard delete leaves no tombstone file")
}

func TestListIgnoresNonRecordFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Write(record("a", "A")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	files, err := s.List()
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSnapshotIncludesTombstones(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Write(record("alive", "Alive")))
	tomb := record("gone", "Gone")
	tomb.Removed = true
	require.NoError(t, s.Write(tomb))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap, 2, "snapshot sees tombstones; uniqueness filtering is the gate's job")
}

func TestTakenIDs(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Write(record("a", "A")))
	require.NoError(t, s.Write(record("a-2", "A")))

	taken, err := s.TakenIDs()
	require.NoError(t, err)
	assert.True(t, taken["a"])
	assert.True(t, taken["a-2"])
	assert.False(t, taken["a-3"])
}
