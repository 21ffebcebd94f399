package types

import "strings"

// RelationshipType is the closed string type of a graph edge. Internally
// generated edges always use one of the constants below; LLM-sourced strings
// must pass AllowedRelationshipType before they reach a query.
type RelationshipType string

const (
	RelEmployedBy   RelationshipType = "EMPLOYED_BY"
	RelWorksWith    RelationshipType = "WORKS_WITH"
	RelManages      RelationshipType = "MANAGES"
	RelReportsTo    RelationshipType = "REPORTS_TO"
	RelFounded      RelationshipType = "FOUNDED"
	RelMemberOf     RelationshipType = "MEMBER_OF"
	RelAttended     RelationshipType = "ATTENDED"
	RelOrganized    RelationshipType = "ORGANIZED"
	RelInvitedTo    RelationshipType = "INVITED_TO"
	RelScheduledFor RelationshipType = "SCHEDULED_FOR"
	RelLocatedIn    RelationshipType = "LOCATED_IN"
	RelLivesIn      RelationshipType = "LIVES_IN"
	RelTraveledTo   RelationshipType = "TRAVELED_TO"
	RelKnows        RelationshipType = "KNOWS"
	RelMarriedTo    RelationshipType = "MARRIED_TO"
	RelParentOf     RelationshipType = "PARENT_OF"
	RelOwns         RelationshipType = "OWNS"
	RelAuthored     RelationshipType = "AUTHORED"
	RelCreated      RelationshipType = "CREATED"
	RelDiscusses    RelationshipType = "DISCUSSES"
	RelMentions     RelationshipType = "MENTIONS"
	RelPartOf       RelationshipType = "PART_OF"
)

// allowedRelationshipTypes is the positive write gate for edges created from
// extraction output. Membership here, not mere absence from the vague list,
// is what permits a type string to be interpolated into a write query.
var allowedRelationshipTypes = map[RelationshipType]struct{}{
	RelEmployedBy:   {},
	RelWorksWith:    {},
	RelManages:      {},
	RelReportsTo:    {},
	RelFounded:      {},
	RelMemberOf:     {},
	RelAttended:     {},
	RelOrganized:    {},
	RelInvitedTo:    {},
	RelScheduledFor: {},
	RelLocatedIn:    {},
	RelLivesIn:      {},
	RelTraveledTo:   {},
	RelKnows:        {},
	RelMarriedTo:    {},
	RelParentOf:     {},
	RelOwns:         {},
	RelAuthored:     {},
	RelCreated:      {},
	RelDiscusses:    {},
	RelMentions:     {},
	RelPartOf:       {},
}

// VagueRelationshipTypes lists catch-all types the extraction prompt forbids.
// Anything here is dropped from extraction output before resolution.
var VagueRelationshipTypes = []string{
	"RELATED_TO",
	"ASSOCIATED_WITH",
	"CONNECTED_TO",
	"HAS_RELATIONSHIP",
	"LINKED_TO",
	"HAS_CONNECTION",
}

// NormalizeRelationshipType maps a free-form extracted type string onto the
// canonical form used for comparison: upper case with spaces and hyphens
// collapsed to underscores.
func NormalizeRelationshipType(s string) RelationshipType {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return RelationshipType(s)
}

// AllowedRelationshipType reports whether t may be written to the graph.
func AllowedRelationshipType(t RelationshipType) bool {
	_, ok := allowedRelationshipTypes[t]
	return ok
}

// VagueRelationshipType reports whether t is on the extraction blacklist.
func VagueRelationshipType(t RelationshipType) bool {
	for _, v := range VagueRelationshipTypes {
		if string(t) == v {
			return true
		}
	}
	return false
}
