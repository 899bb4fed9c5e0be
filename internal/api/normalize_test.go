package api

import (
	"testing"
)

func TestNormalize_CanonicalFieldsPassThrough(t *testing.T) {
	payload := LoosePayload{
		Nodes: []map[string]any{
			{"node_id": "熵", "name": "熵", "domain": "综合", "definition": "def", "confidence": 0.9},
		},
		Edges: []map[string]any{
			{"edge_id": "熵->信息论:定义", "source_node_id": "熵", "target_node_id": "信息论", "relation_type": "定义", "relation_desc": "d", "confidence": 0.7},
		},
	}

	nodes, edges, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(nodes) != 1 || nodes[0].NodeID != "熵" || nodes[0].Confidence != 0.9 {
		t.Errorf("nodes = %+v", nodes)
	}
	if len(edges) != 1 || edges[0].EdgeID != "熵->信息论:定义" || edges[0].Confidence != 0.7 {
		t.Errorf("edges = %+v", edges)
	}
}

func TestNormalize_AliasesAndDefaults(t *testing.T) {
	payload := LoosePayload{
		Nodes: []map[string]any{
			{"id": "n1", "name": "concept", "label": "数学", "desc": "aliased definition"},
		},
		Edges: []map[string]any{
			{"source": "n1", "target": "n2", "type": "定义", "desc": "aliased desc"},
		},
	}

	nodes, edges, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	n := nodes[0]
	if n.NodeID != "n1" || n.Domain != "数学" || n.Definition != "aliased definition" {
		t.Errorf("aliases not mapped: %+v", n)
	}
	if n.Confidence != 0.8 {
		t.Errorf("missing confidence should default to 0.8, got %v", n.Confidence)
	}

	e := edges[0]
	if e.EdgeID != "n1->n2:定义" {
		t.Errorf("edge id should be synthesized: %q", e.EdgeID)
	}
	if e.RelationDesc != "aliased desc" || e.Confidence != 0.8 {
		t.Errorf("edge = %+v", e)
	}
}

func TestNormalize_MissingRelationDefaults(t *testing.T) {
	payload := LoosePayload{
		Edges: []map[string]any{
			{"source": "a", "target": "b"},
		},
	}

	_, edges, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if edges[0].RelationType != "RELATED" {
		t.Errorf("relation = %q, want RELATED", edges[0].RelationType)
	}
	if edges[0].EdgeID != "a->b:RELATED" {
		t.Errorf("edge id = %q", edges[0].EdgeID)
	}
}

func TestNormalize_DropsInvalidRows(t *testing.T) {
	payload := LoosePayload{
		Nodes: []map[string]any{
			{"name": "no id at all"},
			{"node_id": "kept"},
		},
		Edges: []map[string]any{
			{"source": "a"},               // missing target
			{"target": "b"},               // missing source
			{"source": "a", "target": "b"}, // kept
		},
	}

	nodes, edges, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(nodes) != 1 || nodes[0].NodeID != "kept" {
		t.Errorf("nodes = %+v", nodes)
	}
	if len(edges) != 1 {
		t.Errorf("edges = %+v", edges)
	}
}

func TestNormalize_EmptyPayload(t *testing.T) {
	if _, _, err := Normalize(LoosePayload{}); err == nil {
		t.Error("expected error for payload with nothing usable")
	}
}

func TestNormalize_StringConfidence(t *testing.T) {
	payload := LoosePayload{
		Nodes: []map[string]any{
			{"node_id": "n1", "confidence": "0.65"},
		},
	}
	nodes, _, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if nodes[0].Confidence != 0.65 {
		t.Errorf("confidence = %v, want 0.65", nodes[0].Confidence)
	}
}
