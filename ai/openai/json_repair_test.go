package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	t.Run("missing opening key quote", func(t *testing.T) {
		in := `{ question": "what is rust", searchQuery": "rust language"}`
		out := repairJSON(in)

		var parsed map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &parsed))
		assert.Equal(t, "what is rust", parsed["question"])
		assert.Equal(t, "rust language", parsed["searchQuery"])
	})

	t.Run("trailing comma", func(t *testing.T) {
		in := `{"confidence": 0.7,}`
		var parsed map[string]float64
		require.NoError(t, json.Unmarshal([]byte(repairJSON(in)), &parsed))
		assert.InDelta(t, 0.7, parsed["confidence"], 1e-9)
	})

	t.Run("well-formed input untouched", func(t *testing.T) {
		in := `{"queries":[{"question":"a","searchQuery":"b"}]}`
		assert.Equal(t, in, repairJSON(in))
	})
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
