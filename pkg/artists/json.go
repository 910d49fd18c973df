package artists

import (
	"bytes"
	"encoding/json"

	"github.com/xoundbyte/soulbase/pkg/errors"
)

// MarshalRecord serializes an artist in the canonical per-record file
// format: two-space indented JSON with a trailing newline. Field order
// follows the Artist struct, which is the schema contract's canonical order.
func MarshalRecord(a *Artist) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(a); err != nil {
		return nil, errors.WrapParse("json", a.ID, err)
	}
	// Encoder already appends the trailing newline.
	return buf.Bytes(), nil
}

// MarshalDataset serializes the compiled aggregate: a JSON array of records
// in the same canonical format as per-record files.
func MarshalDataset(records []Artist) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, errors.WrapParse("json", "dataset", err)
	}
	return buf.Bytes(), nil
}

// ParseRecord parses a per-record file. Structural problems beyond JSON
// syntax are left for schema validation.
func ParseRecord(data []byte, file string) (*Artist, error) {
	var a Artist
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.NewParseError("json", file, err.Error(), err)
	}
	return &a, nil
}
