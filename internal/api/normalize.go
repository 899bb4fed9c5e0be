package api

import (
	"fmt"
	"strconv"

	"github.com/zhangqin/crossgraph/internal/graph"
	"github.com/zhangqin/crossgraph/internal/model"
)

// LoosePayload is the tolerant graph shape the front end submits: field
// aliases (id/type/desc) and missing confidences are accepted and mapped to
// the canonical document.
type LoosePayload struct {
	Meta  map[string]any   `json:"meta"`
	Nodes []map[string]any `json:"nodes"`
	Edges []map[string]any `json:"edges"`
}

const defaultConfidence = 0.8

// Normalize maps a loose payload to canonical nodes and edges. Nodes without
// an id and edges without both endpoints are dropped; missing edge ids are
// synthesized from (source, target, relation).
func Normalize(payload LoosePayload) ([]model.Node, []model.Edge, error) {
	nodes := make([]model.Node, 0, len(payload.Nodes))
	for _, raw := range payload.Nodes {
		id := firstString(raw, "node_id", "id")
		if id == "" {
			continue
		}
		nodes = append(nodes, model.Node{
			NodeID:     id,
			Name:       firstString(raw, "name"),
			Domain:     firstString(raw, "domain", "label"),
			Definition: firstString(raw, "definition", "desc"),
			Confidence: floatOr(raw, defaultConfidence, "confidence"),
		})
	}

	edges := make([]model.Edge, 0, len(payload.Edges))
	for _, raw := range payload.Edges {
		source := firstString(raw, "source_node_id", "source")
		target := firstString(raw, "target_node_id", "target")
		if source == "" || target == "" {
			continue
		}
		relation := firstString(raw, "relation_type", "type")
		if relation == "" {
			relation = "RELATED"
		}
		edgeID := firstString(raw, "edge_id", "id")
		if edgeID == "" {
			edgeID = graph.EdgeID(source, target, relation)
		}
		edges = append(edges, model.Edge{
			EdgeID:       edgeID,
			SourceNodeID: source,
			TargetNodeID: target,
			RelationType: relation,
			RelationDesc: firstString(raw, "relation_desc", "desc"),
			Confidence:   floatOr(raw, defaultConfidence, "confidence"),
		})
	}

	if len(nodes) == 0 && len(edges) == 0 {
		return nil, nil, fmt.Errorf("payload contains no usable nodes or edges")
	}
	return nodes, edges, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func floatOr(m map[string]any, fallback float64, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		if v != 0 {
			return v
		}
	case int:
		if v != 0 {
			return float64(v)
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil && f != 0 {
			return f
		}
	}
	return fallback
}
