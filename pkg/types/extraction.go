package types

// EntityType is the five-value enumeration the extraction prompt is
// restricted to. Anything else in a raw response is discarded.
type EntityType string

const (
	EntityPerson       EntityType = "Person"
	EntityOrganization EntityType = "Organization"
	EntityEvent        EntityType = "Event"
	EntityConcept      EntityType = "Concept"
	EntityLocation     EntityType = "Location"
)

// EntityTypes enumerates the valid extraction entity types.
var EntityTypes = []EntityType{
	EntityPerson,
	EntityOrganization,
	EntityEvent,
	EntityConcept,
	EntityLocation,
}

// ValidEntityType reports whether t is in the extraction enumeration.
func ValidEntityType(t EntityType) bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// LabelForEntityType maps an extraction entity type onto the node label the
// resulting node is created with.
func LabelForEntityType(t EntityType) NodeLabel {
	switch t {
	case EntityPerson:
		return LabelContact
	case EntityOrganization, EntityLocation:
		return LabelEntity
	case EntityEvent:
		return LabelEvent
	default:
		return LabelConcept
	}
}

// ExtractedEntity is a transient entity produced by the extraction service.
// It is never persisted as-is; resolution either links it to an existing node
// or creates a new node carrying its properties.
type ExtractedEntity struct {
	Name       string                 `json:"name"`
	Type       EntityType             `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Confidence float64                `json:"confidence"`
}

// ExtractedRelationship is a transient relationship between two extracted
// entities, referenced by name. The type is a free string until it has passed
// the write allow-list.
type ExtractedRelationship struct {
	From       string                 `json:"from"`
	To         string                 `json:"to"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}
