package graph

import (
	"github.com/zhangqin/crossgraph/internal/model"
)

// EdgeID derives the deterministic edge identifier for a (source, target,
// relation) triple. The same triple always yields the same id, which is what
// makes store upserts idempotent.
func EdgeID(source, target, relation string) string {
	if relation == "" {
		relation = model.RelationRelated
	}
	return source + "->" + target + ":" + relation
}

// Formatter converts scored associations into the canonical graph document
// shape. It is pure: no I/O, deterministic output for identical input.
type Formatter struct {
	// Suggest supplies adjacent concepts for the synthesized no-association
	// record when a run yields nothing at all.
	Suggest func(concept string) []string
}

// NewFormatter creates a formatter.
func NewFormatter(suggest func(concept string) []string) *Formatter {
	return &Formatter{Suggest: suggest}
}

// Format builds the graph document for one concept. The root node is always
// emitted with confidence 1.0; each association contributes one target node
// and one edge. If both inputs are empty, a default no-association record is
// synthesized - a run never reports total silence.
func (f *Formatter) Format(concept string, assocs []model.Association, noAssoc []model.NoAssociation) *model.GraphDocument {
	nodes := []model.Node{
		{
			NodeID:     concept,
			Name:       concept,
			Confidence: 1.0,
		},
	}

	edges := make([]model.Edge, 0, len(assocs))
	evidenceMap := make(map[string][]model.EvidenceItem)

	for _, assoc := range assocs {
		confidence := assoc.Confidence
		if confidence == 0 {
			confidence = 0.8
		}
		relation := assoc.Relation()

		nodes = append(nodes, model.Node{
			NodeID:     assoc.TargetConcept,
			Name:       assoc.TargetConcept,
			Domain:     assoc.Discipline,
			Definition: assoc.Explanation,
			Confidence: confidence,
		})

		edgeID := EdgeID(concept, assoc.TargetConcept, relation)
		edges = append(edges, model.Edge{
			EdgeID:       edgeID,
			SourceNodeID: concept,
			TargetNodeID: assoc.TargetConcept,
			RelationType: relation,
			RelationDesc: assoc.Explanation,
			Confidence:   confidence,
		})

		if len(assoc.Evidence) > 0 {
			evidenceMap[edgeID] = assoc.Evidence
		}
	}

	if len(assocs) == 0 && len(noAssoc) == 0 {
		var suggestions []string
		if f.Suggest != nil {
			suggestions = f.Suggest(concept)
		}
		noAssoc = []model.NoAssociation{
			{
				Discipline:  "综合",
				Message:     "暂无关联",
				Suggestions: suggestions,
			},
		}
	}

	return &model.GraphDocument{
		Meta: model.GraphMeta{
			Concept:       concept,
			Evidence:      evidenceMap,
			NoAssociation: noAssoc,
		},
		Nodes: nodes,
		Edges: edges,
	}
}
