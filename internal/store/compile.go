package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/xoundbyte/soulbase/internal/schema"
	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
	"github.com/xoundbyte/soulbase/pkg/logging"
)

// FileError records a parse or validation failure against one record file.
type FileError struct {
	File string
	Err  error
}

// Report is the outcome of one compilation run.
type Report struct {
	Total      int         // record files seen
	Compiled   int         // records in the artifact
	Tombstones int         // removed records excluded after validation
	Errors     []FileError // per-file failures, in file order
}

// OK reports whether the run accumulated no errors. Artifact writes are
// gated on OK.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Err returns a single error summarizing every per-file failure, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, fe := range r.Errors {
		msgs[i] = fmt.Sprintf("%s: %v", fe.File, fe.Err)
	}
	return fmt.Errorf("compilation failed with %d error(s):\n  %s",
		len(r.Errors), strings.Join(msgs, "\n  "))
}

// Compiler builds the canonical aggregate dataset from per-record files.
type Compiler struct {
	store    *Store
	contract *schema.Contract
}

// NewCompiler creates a Compiler over the given store.
func NewCompiler(s *Store) *Compiler {
	return &Compiler{store: s, contract: schema.MustLoad()}
}

// Compile reads, parses, and validates every record file independently.
// Failures are recorded per file and do not abort the scan. Tombstones
// must still validate but are excluded from the result. Surviving records
// are sorted by ID using locale-aware, case-insensitive ordering.
//
// Compile is pure and idempotent: two runs over unchanged inputs produce
// identical output.
func (c *Compiler) Compile() ([]artists.Artist, *Report) {
	report := &Report{}

	files, err := c.store.List()
	if err != nil {
		report.Errors = append(report.Errors, FileError{File: c.store.Dir(), Err: err})
		return nil, report
	}

	compiled := []artists.Artist{}
	for _, file := range files {
		report.Total++

		data, err := os.ReadFile(file)
		if err != nil {
			report.Errors = append(report.Errors, FileError{File: file, Err: errors.WrapIO("read", file, err)})
			continue
		}

		a, err := artists.ParseRecord(data, file)
		if err != nil {
			logging.Error().Err(err).Str("file", file).Msg("Record failed to parse")
			report.Errors = append(report.Errors, FileError{File: file, Err: err})
			continue
		}

		if err := c.contract.Validate(a); err != nil {
			logging.Error().Err(err).Str("file", file).Str("id", a.ID).Msg("Record failed validation")
			report.Errors = append(report.Errors, FileError{File: file, Err: err})
			continue
		}

		if a.ID+constants.RecordFileExt != filepath.Base(file) {
			err := errors.NewValidationError("id", a.ID, "must match file name")
			report.Errors = append(report.Errors, FileError{File: file, Err: err})
			continue
		}

		if a.Removed {
			report.Tombstones++
			continue
		}
		compiled = append(compiled, *a)
	}

	sortByID(compiled)
	report.Compiled = len(compiled)
	return compiled, report
}

// CompileTo runs Compile and writes the artifact. The write is gated on a
// clean report across all files; a failed run never produces a partial
// artifact.
func (c *Compiler) CompileTo(artifactPath string) (*Report, error) {
	records, report := c.Compile()
	if !report.OK() {
		return report, report.Err()
	}

	data, err := artists.MarshalDataset(records)
	if err != nil {
		return report, err
	}

	dir := filepath.Dir(artifactPath)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return report, errors.WrapIO("create", dir, err)
	}
	if err := os.WriteFile(artifactPath, data, constants.FilePermissions); err != nil {
		return report, errors.WrapIO("write", artifactPath, err)
	}

	logging.Info().
		Int("records", report.Compiled).
		Int("tombstones", report.Tombstones).
		Str("artifact", artifactPath).
		Msg("Compiled dataset")
	return report, nil
}

// sortByID orders records by ID, locale-aware and case-insensitive, with an
// exact-string tie-break so output stays deterministic.
func sortByID(records []artists.Artist) {
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(records, func(i, j int) bool {
		if cmp := col.CompareString(records[i].ID, records[j].ID); cmp != 0 {
			return cmp < 0
		}
		return records[i].ID < records[j].ID
	})
}
