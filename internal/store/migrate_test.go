package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyRecord = `{
  "id": "holly",
  "name": "Holly",
  "disclosure": "full",
  "disclosureText": "disclosed on her site",
  "aiUsage": ["vocals"],
  "indicators": ["ai-vocals"],
  "indicatorsText": "voice model",
  "urls": [],
  "dateAdded": "2024-01-15T00:00:00Z"
}
`

func TestMigrateRenamesLegacyKeysInPlace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "holly.json"), []byte(legacyRecord), 0o644))

	report, err := New(dir).Migrate()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Skipped)

	data, err := os.ReadFile(filepath.Join(dir, "holly.json"))
	require.NoError(t, err)
	migrated := string(data)

	assert.Contains(t, migrated, `"disclosureNotes": "disclosed on her site"`)
	assert.Contains(t, migrated, `"disclosureTypes"`)
	assert.Contains(t, migrated, `"markers"`)
	assert.Contains(t, migrated, `"markerNotes": "voice model"`)
	assert.NotContains(t, migrated, "disclosureText")
	assert.NotContains(t, migrated, "aiUsage")
	assert.NotContains(t, migrated, "indicators\"")
}

func TestMigratePreservesKeyOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "holly.json"), []byte(legacyRecord), 0o644))

	_, err := New(dir).Migrate()
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "holly.json"))
	require.NoError(t, err)
	migrated := string(data)

	// The renamed keys stay where their legacy counterparts were.
	idxID := strings.Index(migrated, `"id"`)
	idxNotes := strings.Index(migrated, `"disclosureNotes"`)
	idxTypes := strings.Index(migrated, `"disclosureTypes"`)
	idxURLs := strings.Index(migrated, `"urls"`)
	require.GreaterOrEqual(t, idxID, 0)
	require.GreaterOrEqual(t, idxNotes, 0)
	assert.Less(t, idxID, idxNotes)
	assert.Less(t, idxNotes, idxTypes)
	assert.Less(t, idxTypes, idxURLs)
}

func TestMigrateSkipsCanonicalFiles(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Write(record("clean", "Clean")))

	before, err := os.ReadFile(s.Path("clean"))
	require.NoError(t, err)

	report, err := s.Migrate()
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Skipped)

	after, err := os.ReadFile(s.Path("clean"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "canonical files are untouched")
}
