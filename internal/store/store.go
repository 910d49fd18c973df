// Package store owns the per-record file set: one JSON document per artist,
// named by record ID, plus compilation of the canonical aggregate dataset.
package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xoundbyte/soulbase/pkg/artists"
	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
)

// Store is a directory-backed record store. A single run owns the store
// exclusively; no locking is modeled beyond that.
type Store struct {
	dir string
}

// New creates a store over the given records directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the records directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a record ID.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+constants.RecordFileExt)
}

// Filename returns the bare file name for a record ID.
func (s *Store) Filename(id string) string {
	return id + constants.RecordFileExt
}

// List enumerates all per-record files, sorted by file name.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WrapIO("read", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), constants.RecordFileExt) {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Exists reports whether a record file exists for the given ID.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Load reads and parses one record by ID. Missing files yield a typed
// NotFoundError; the record is not validated here.
func (s *Store) Load(id string) (*artists.Artist, error) {
	path := s.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("artist", id)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return artists.ParseRecord(data, path)
}

// Snapshot loads every record in the store, in file order. It is the
// explicitly passed "existing records" view consumed by the validation
// gate, loaded once per run. A parse failure aborts the snapshot.
func (s *Store) Snapshot() ([]artists.Artist, error) {
	files, err := s.List()
	if err != nil {
		return nil, err
	}

	records := make([]artists.Artist, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.WrapIO("read", file, err)
		}
		a, err := artists.ParseRecord(data, file)
		if err != nil {
			return nil, err
		}
		records = append(records, *a)
	}
	return records, nil
}

// Write serializes a record into its per-record file in canonical format.
func (s *Store) Write(a *artists.Artist) error {
	data, err := artists.MarshalRecord(a)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", s.dir, err)
	}
	path := s.Path(a.ID)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Delete removes a record file permanently (hard delete, not a tombstone).
// Missing files yield a typed NotFoundError.
func (s *Store) Delete(id string) error {
	path := s.Path(id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("artist", id)
		}
		return errors.WrapIO("delete", path, err)
	}
	return nil
}

// TakenIDs returns the set of record IDs currently present on disk,
// including tombstones. Slug disambiguation checks against this set.
func (s *Store) TakenIDs() (map[string]bool, error) {
	files, err := s.List()
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(files))
	for _, file := range files {
		base := filepath.Base(file)
		taken[strings.TrimSuffix(base, constants.RecordFileExt)] = true
	}
	return taken, nil
}
