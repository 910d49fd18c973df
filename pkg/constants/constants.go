// Package constants provides shared constants used throughout the soulbase
// codebase: timeouts, file permissions, and layout defaults that should be
// consistent across the pipeline.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to
	// external collaborators (ticketing API, handle resolution)
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Layout constants define the default registry layout
const (
	// DefaultRecordsDir is the directory holding one JSON file per artist
	DefaultRecordsDir = "src"

	// DefaultArtifactPath is the compiled aggregate dataset
	DefaultArtifactPath = "dist/artists.json"

	// RecordFileExt is the extension of per-record files
	RecordFileExt = ".json"
)

// Limit constants define various limits and capacities
const (
	// MaxNameLength is the maximum allowed length for artist names
	MaxNameLength = 256

	// MaxNotesLength is the maximum allowed length for free-text notes fields
	MaxNotesLength = 4096

	// SpotifyIDLength is the length of a bare Spotify artist identifier
	SpotifyIDLength = 22
)
