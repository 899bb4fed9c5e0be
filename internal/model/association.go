package model

// Relation kinds produced by the generator. The set is open: any non-empty
// string is a valid relation type, these are just the ones the prompt asks for.
const (
	RelationRelated      = "related"
	RelationDefinitional = "定义"
	RelationSubordinate  = "从属"
	RelationAnalogical   = "类比"
	RelationCausal       = "因果"
	RelationApplied      = "应用"
	RelationCognate      = "同源"
	RelationOppositional = "对立"
)

// Association is a proposed relation between a source concept and a target
// concept within a discipline. It is transient: produced by the generator,
// scored in place, and discarded after formatting.
type Association struct {
	Discipline    string         `json:"discipline"`
	TargetConcept string         `json:"target_concept"`
	RelationType  string         `json:"relation_type"`
	Explanation   string         `json:"explanation"`
	Evidence      []EvidenceItem `json:"evidence,omitempty"`
	Confidence    float64        `json:"confidence,omitempty"`
}

// Relation returns the relation type, defaulting to "related".
func (a *Association) Relation() string {
	if a.RelationType == "" {
		return RelationRelated
	}
	return a.RelationType
}

// NoAssociation is emitted when a discipline (or the whole run) yields no
// association, so the output is never fully empty.
type NoAssociation struct {
	Discipline  string   `json:"discipline"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// GenerationResult is the raw candidate set for one concept.
type GenerationResult struct {
	Concept       string          `json:"concept"`
	Associations  []Association   `json:"associations"`
	NoAssociation []NoAssociation `json:"no_association"`
}
