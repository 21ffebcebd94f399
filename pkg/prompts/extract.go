// Package prompts builds the extraction prompt and parses/filters the
// model's structured output.
package prompts

import (
	"fmt"
	"strings"

	"github.com/omnii-ai/omnigraph/pkg/llm"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

const extractionSystemPrompt = `You are an information extraction system. Extract entities and relationships from the provided text.

Entity types are restricted to exactly these five values: Person, Organization, Event, Concept, Location. Do not invent other types.

For each entity return:
- "name": the canonical name as it appears in the text
- "type": one of the five types above
- "properties": any attributes stated in the text (role, email, date, location, etc.)
- "confidence": a number between 0 and 1 reflecting how certain the extraction is

For each relationship return:
- "from": the name of the source entity
- "to": the name of the target entity
- "type": a SPECIFIC verb phrase in UPPER_SNAKE_CASE (e.g. EMPLOYED_BY, ATTENDED, SCHEDULED_FOR, LIVES_IN, FOUNDED)
- "properties": supporting attributes (e.g. role, date)

Relationship types must be specific. NEVER use any of these vague types: %s.

Respond with a single JSON object:
{"entities": [...], "relationships": [...]}

Extract only what the text states or clearly implies. Do not fabricate entities or relationships.`

// ExtractionMessages builds the chat messages for one extraction call.
func ExtractionMessages(text, sourceContext string) []llm.Message {
	system := fmt.Sprintf(extractionSystemPrompt, strings.Join(types.VagueRelationshipTypes, ", "))

	user := text
	if sourceContext != "" {
		user = fmt.Sprintf("Source: %s\n\n%s", sourceContext, text)
	}

	return []llm.Message{
		llm.SystemMessage(system),
		llm.UserMessage(user),
	}
}
