package model

// Node is a durable concept node. The concept name is the key: node_id and
// name carry the same string, and upserts merge by node_id.
type Node struct {
	NodeID     string  `json:"node_id"`
	Name       string  `json:"name"`
	Domain     string  `json:"domain"`
	Definition string  `json:"definition"`
	Confidence float64 `json:"confidence"`
}

// Edge is a durable, labeled relation between two concept nodes. EdgeID is a
// pure function of (source, target, relation), which makes upserts idempotent.
type Edge struct {
	EdgeID       string  `json:"edge_id"`
	SourceNodeID string  `json:"source_node_id"`
	TargetNodeID string  `json:"target_node_id"`
	RelationType string  `json:"relation_type"`
	RelationDesc string  `json:"relation_desc"`
	Confidence   float64 `json:"confidence"`
}

// GraphMeta is the sidecar section of a graph document: the mined concept,
// per-edge evidence, and any no-association records.
type GraphMeta struct {
	Concept       string                    `json:"concept,omitempty"`
	Evidence      map[string][]EvidenceItem `json:"evidence,omitempty"`
	NoAssociation []NoAssociation           `json:"no_association,omitempty"`
}

// GraphDocument is the canonical pipeline output shape, stable regardless of
// which backends produced it.
type GraphDocument struct {
	Meta  GraphMeta `json:"meta"`
	Nodes []Node    `json:"nodes"`
	Edges []Edge    `json:"edges"`
}
