package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnii-ai/omnigraph/pkg/types"
)

const sampleResponse = `{
	"entities": [
		{"name": "Alice", "type": "Person", "properties": {"role": "CTO"}, "confidence": 0.95},
		{"name": "Acme Corp", "type": "Organization", "confidence": 0.9}
	],
	"relationships": [
		{"from": "Alice", "to": "Acme Corp", "type": "EMPLOYED_BY", "properties": {"role": "CTO"}}
	]
}`

func TestParseExtraction(t *testing.T) {
	out, err := ParseExtraction(sampleResponse)
	require.NoError(t, err)
	require.Len(t, out.Entities, 2)
	require.Len(t, out.Relationships, 1)
	assert.Equal(t, "Alice", out.Entities[0].Name)
	assert.Equal(t, types.EntityPerson, out.Entities[0].Type)
	assert.Equal(t, "EMPLOYED_BY", out.Relationships[0].Type)
	assert.Equal(t, "CTO", out.Relationships[0].Properties["role"])
}

func TestParseExtractionCodeFence(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"
	out, err := ParseExtraction(fenced)
	require.NoError(t, err)
	assert.Len(t, out.Entities, 2)
}

func TestParseExtractionRepairsMalformedJSON(t *testing.T) {
	// Trailing comma: invalid JSON that jsonrepair can fix.
	malformed := `{"entities": [{"name": "Alice", "type": "Person", "confidence": 0.9},], "relationships": []}`
	out, err := ParseExtraction(malformed)
	require.NoError(t, err)
	require.Len(t, out.Entities, 1)
	assert.Equal(t, "Alice", out.Entities[0].Name)
}

func TestParseExtractionEmpty(t *testing.T) {
	_, err := ParseExtraction("")
	assert.Error(t, err)
	_, err = ParseExtraction("   ")
	assert.Error(t, err)
}

func TestFilterExtractionDropsInvalidEntityTypes(t *testing.T) {
	raw := &Extraction{
		Entities: []types.ExtractedEntity{
			{Name: "Alice", Type: "Person", Confidence: 0.9},
			{Name: "Rex", Type: "Animal", Confidence: 0.9},
			{Name: "", Type: "Person", Confidence: 0.9},
		},
	}
	out := FilterExtraction(raw)
	require.Len(t, out.Entities, 1)
	assert.Equal(t, "Alice", out.Entities[0].Name)
}

func TestFilterExtractionDropsVagueRelationships(t *testing.T) {
	raw := &Extraction{
		Relationships: []types.ExtractedRelationship{
			{From: "Alice", To: "Acme", Type: "EMPLOYED_BY"},
			{From: "Alice", To: "Bob", Type: "RELATED_TO"},
			{From: "Alice", To: "Bob", Type: "associated with"},
			{From: "", To: "Bob", Type: "KNOWS"},
		},
	}
	out := FilterExtraction(raw)
	require.Len(t, out.Relationships, 1)
	assert.Equal(t, "EMPLOYED_BY", out.Relationships[0].Type)
}

func TestFilterExtractionClampsConfidence(t *testing.T) {
	raw := &Extraction{
		Entities: []types.ExtractedEntity{
			{Name: "A", Type: "Concept", Confidence: 1.5},
			{Name: "B", Type: "Concept", Confidence: -0.2},
		},
	}
	out := FilterExtraction(raw)
	require.Len(t, out.Entities, 2)
	assert.Equal(t, 1.0, out.Entities[0].Confidence)
	assert.Equal(t, 0.0, out.Entities[1].Confidence)
}

func TestExtractionMessagesForbidVagueTypes(t *testing.T) {
	messages := ExtractionMessages("Alice was hired by Acme Corp as CTO", "email-123")
	require.Len(t, messages, 2)

	system := messages[0].Content
	for _, vague := range types.VagueRelationshipTypes {
		assert.Contains(t, system, vague, "prompt must name every forbidden type")
	}
	for _, et := range types.EntityTypes {
		assert.Contains(t, system, string(et))
	}

	assert.True(t, strings.Contains(messages[1].Content, "email-123"))
	assert.True(t, strings.Contains(messages[1].Content, "Alice was hired"))
}
