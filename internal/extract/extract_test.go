package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xoundbyte/soulbase/pkg/errors"
)

const proposalBody = "New artist report.\n\n```json\n{\"name\": \"Holly\", \"disclosure\": \"none\"}\n```\n\nThanks!"

func TestPayloadParsesFencedBlock(t *testing.T) {
	payload, err := Payload(proposalBody)
	require.NoError(t, err)
	assert.Equal(t, "Holly", payload["name"])
	assert.Equal(t, "none", payload["disclosure"])
}

func TestPayloadPrefersEarlierCandidate(t *testing.T) {
	// Candidates arrive newest-first; the first parsable block wins and
	// texts are never merged.
	newest := "Correction below.\n```json\n{\"name\": \"Holly Plus\"}\n```"

	payload, err := Payload(newest, proposalBody)
	require.NoError(t, err)
	assert.Equal(t, "Holly Plus", payload["name"])
	_, merged := payload["disclosure"]
	assert.False(t, merged, "payloads from different texts must not merge")
}

func TestPayloadFallsBackPastTextsWithoutBlocks(t *testing.T) {
	payload, err := Payload("just a comment, no data", "another comment", proposalBody)
	require.NoError(t, err)
	assert.Equal(t, "Holly", payload["name"])
}

func TestPayloadNoBlockAnywhere(t *testing.T) {
	_, err := Payload("nothing here", "still nothing")
	require.Error(t, err)
	assert.True(t, errors.IsNoPayload(err))
	assert.False(t, errors.IsMalformedPayload(err))
}

func TestPayloadMalformedBlock(t *testing.T) {
	_, err := Payload("```json\n{\"name\": }\n```")
	require.Error(t, err)
	assert.True(t, errors.IsMalformedPayload(err))
	assert.False(t, errors.IsNoPayload(err))
}

func TestPayloadEmptyInput(t *testing.T) {
	_, err := Payload()
	require.Error(t, err)
	assert.True(t, errors.IsNoPayload(err))
}

func TestFencedBlock(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "simple block",
			text:  "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
			found: true,
		},
		{
			name:  "surrounded by prose",
			text:  "intro\n```json\n{}\n```\noutro",
			want:  "{}",
			found: true,
		},
		{
			name:  "untagged fence ignored",
			text:  "```\n{\"a\": 1}\n```",
			found: false,
		},
		{
			name:  "first of two blocks wins",
			text:  "```json\n{\"a\": 1}\n```\n```json\n{\"b\": 2}\n```",
			want:  `{"a": 1}`,
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FencedBlock(tt.text)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
