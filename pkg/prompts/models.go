package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"

	"github.com/omnii-ai/omnigraph/pkg/types"
)

// Extraction is the structured payload the extraction model must return.
type Extraction struct {
	Entities      []types.ExtractedEntity       `json:"entities"`
	Relationships []types.ExtractedRelationship `json:"relationships"`
}

// ParseExtraction parses the model's response content. Models occasionally
// wrap JSON in code fences or emit trailing commas, so a failed unmarshal is
// retried once through jsonrepair before giving up.
func ParseExtraction(content string) (*Extraction, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty extraction response")
	}

	cleaned := stripCodeFences(content)

	var out Extraction
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return nil, fmt.Errorf("unparsable extraction response: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return nil, fmt.Errorf("unparsable extraction response after repair: %w", err)
		}
	}

	return &out, nil
}

// FilterExtraction drops entities whose type is outside the five-value
// enumeration and relationships whose type is on the vague blacklist. The
// result is safe to feed into resolution; the write allow-list is enforced
// separately at edge-creation time.
func FilterExtraction(raw *Extraction) *Extraction {
	out := &Extraction{
		Entities:      make([]types.ExtractedEntity, 0, len(raw.Entities)),
		Relationships: make([]types.ExtractedRelationship, 0, len(raw.Relationships)),
	}

	for _, e := range raw.Entities {
		if e.Name == "" || !types.ValidEntityType(e.Type) {
			continue
		}
		if e.Confidence < 0 {
			e.Confidence = 0
		}
		if e.Confidence > 1 {
			e.Confidence = 1
		}
		out.Entities = append(out.Entities, e)
	}

	for _, r := range raw.Relationships {
		if r.From == "" || r.To == "" || r.Type == "" {
			continue
		}
		if types.VagueRelationshipType(types.NormalizeRelationshipType(r.Type)) {
			continue
		}
		out.Relationships = append(out.Relationships, r)
	}

	return out
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
