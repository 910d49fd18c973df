// Package extract recovers structured change-proposal payloads from
// human-authored proposal text. Parsing free text is inherently fragile, so
// the rest of the pipeline only ever sees the structured result or a typed
// extraction error.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/xoundbyte/soulbase/pkg/errors"
)

// fencedBlock matches the first ```json fenced code block in a text.
var fencedBlock = regexp.MustCompile("(?s)```json\\s*\n(.*?)```")

// Payload scans candidate texts in priority order and returns the payload
// of the first text containing a parsable ```json fenced block. Candidates
// are expected newest-follow-up-first with the original proposal body last;
// texts are never merged.
//
// Returns an ExtractionError: NoStructuredPayloadFound when no candidate
// contains a fenced block, MalformedPayload when blocks exist but none
// parses.
func Payload(texts ...string) (map[string]any, error) {
	var firstParseErr error

	for _, text := range texts {
		block, found := FencedBlock(text)
		if !found {
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal([]byte(block), &payload); err != nil {
			if firstParseErr == nil {
				firstParseErr = err
			}
			continue
		}
		return payload, nil
	}

	if firstParseErr != nil {
		return nil, &errors.ExtractionError{
			Malformed: true,
			Message:   firstParseErr.Error(),
			Err:       firstParseErr,
		}
	}
	return nil, &errors.ExtractionError{
		Message: "no json fenced block in any candidate text",
	}
}

// FencedBlock returns the contents of the first ```json fenced block in
// text, and whether one was found.
func FencedBlock(text string) (string, bool) {
	m := fencedBlock.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
