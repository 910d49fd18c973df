package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/xoundbyte/soulbase/pkg/constants"
	"github.com/xoundbyte/soulbase/pkg/errors"
	"github.com/xoundbyte/soulbase/pkg/logging"
)

// legacyKeys maps retired field names to their canonical replacements.
var legacyKeys = map[string]string{
	"disclosureText": "disclosureNotes",
	"aiUsage":        "disclosureTypes",
	"indicators":     "markers",
	"indicatorsText": "markerNotes",
}

// MigrateReport summarizes one migration run.
type MigrateReport struct {
	Updated int
	Skipped int
}

// Migrate renames legacy field keys in every record file, preserving each
// file's existing key order and values. Files already on the canonical key
// set are skipped untouched.
func (s *Store) Migrate() (*MigrateReport, error) {
	files, err := s.List()
	if err != nil {
		return nil, err
	}

	report := &MigrateReport{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return report, errors.WrapIO("read", file, err)
		}

		migrated, changed, err := renameKeys(data)
		if err != nil {
			return report, errors.WrapParse("json", file, err)
		}
		if !changed {
			report.Skipped++
			continue
		}

		if err := os.WriteFile(file, migrated, constants.FilePermissions); err != nil {
			return report, errors.WrapIO("write", file, err)
		}
		logging.Info().Str("file", filepath.Base(file)).Msg("Migrated record")
		report.Updated++
	}
	return report, nil
}

// renameKeys rewrites the top-level keys of a JSON object document,
// replacing legacy names and leaving order and values intact. It reports
// whether anything changed.
func renameKeys(data []byte) ([]byte, bool, error) {
	pairs, err := decodeOrdered(data)
	if err != nil {
		return nil, false, err
	}

	changed := false
	for i := range pairs {
		if canonical, ok := legacyKeys[pairs[i].key]; ok {
			pairs[i].key = canonical
			changed = true
		}
	}
	if !changed {
		return data, false, nil
	}

	out, err := encodeOrdered(pairs)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// pair is one top-level key with its raw value.
type pair struct {
	key   string
	value json.RawMessage
}

// decodeOrdered reads a JSON object's top-level members in document order.
func decodeOrdered(data []byte) ([]pair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.ErrMalformedPayload
	}

	var pairs []pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.ErrMalformedPayload
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{key: key, value: value})
	}
	return pairs, nil
}

// encodeOrdered renders pairs back into the canonical file format: 2-space
// indent and a trailing newline.
func encodeOrdered(pairs []pair) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, p := range pairs {
		keyData, err := json.Marshal(p.key)
		if err != nil {
			return nil, err
		}

		var valBuf bytes.Buffer
		if err := json.Indent(&valBuf, p.value, "  ", "  "); err != nil {
			return nil, err
		}

		buf.WriteString("  ")
		buf.Write(keyData)
		buf.WriteString(": ")
		buf.Write(valBuf.Bytes())
		if i < len(pairs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
