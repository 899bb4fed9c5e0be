package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zhangqin/crossgraph/internal/model"
)

// Ingestion gate. Only well-supported material is persisted; everything else
// stays in the run artifact for human review.
const (
	MinIngestConfidence = 0.6
	MaxIngestConfidence = 1.0
)

// UpsertResult reports how many rows survived the gate and were written.
type UpsertResult struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// GateByConfidence drops nodes and edges whose confidence falls outside
// [0.6, 1.0], plus edges missing an id or an endpoint. Pure, so the gate is
// testable without a database.
func GateByConfidence(nodes []model.Node, edges []model.Edge) ([]model.Node, []model.Edge) {
	keptNodes := make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.NodeID == "" {
			continue
		}
		if n.Confidence < MinIngestConfidence || n.Confidence > MaxIngestConfidence {
			continue
		}
		keptNodes = append(keptNodes, n)
	}

	keptEdges := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if e.EdgeID == "" || e.SourceNodeID == "" || e.TargetNodeID == "" {
			continue
		}
		if e.Confidence < MinIngestConfidence || e.Confidence > MaxIngestConfidence {
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	return keptNodes, keptEdges
}

// SanitizeRelation turns a free-form relation type into a safe Cypher
// relationship label. Cypher cannot parameterize labels, so the value is
// backtick-quoted at query build time and embedded backticks are doubled.
func SanitizeRelation(relation string) string {
	relation = strings.TrimSpace(relation)
	if relation == "" {
		return "RELATED"
	}
	return strings.ReplaceAll(relation, "`", "``")
}

// Upsert writes gated nodes and edges with MERGE semantics keyed on node_id
// and edge_id: replaying the same document is a no-op apart from refreshed
// properties.
func (c *Client) Upsert(ctx context.Context, nodes []model.Node, edges []model.Edge) (UpsertResult, error) {
	if c == nil {
		return UpsertResult{}, fmt.Errorf("store: not configured")
	}

	nodes, edges = GateByConfidence(nodes, edges)
	res := UpsertResult{Nodes: len(nodes), Edges: len(edges)}
	if len(nodes) == 0 && len(edges) == 0 {
		return res, nil
	}

	session := c.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if len(nodes) > 0 {
			rows := make([]map[string]any, 0, len(nodes))
			for _, n := range nodes {
				rows = append(rows, map[string]any{
					"node_id":    n.NodeID,
					"name":       n.Name,
					"domain":     n.Domain,
					"definition": n.Definition,
					"confidence": n.Confidence,
				})
			}
			if _, err := tx.Run(ctx, `
				UNWIND $rows AS row
				MERGE (c:Concept {node_id: row.node_id})
				SET c.name = row.name,
				    c.domain = row.domain,
				    c.definition = row.definition,
				    c.confidence = row.confidence
			`, map[string]any{"rows": rows}); err != nil {
				return nil, fmt.Errorf("upsert nodes: %w", err)
			}
		}

		// Relationship labels cannot be parameters, so edges are grouped by
		// sanitized label and each group gets its own statement.
		groups := make(map[string][]map[string]any)
		for _, e := range edges {
			label := SanitizeRelation(e.RelationType)
			groups[label] = append(groups[label], map[string]any{
				"edge_id":       e.EdgeID,
				"source":        e.SourceNodeID,
				"target":        e.TargetNodeID,
				"relation_type": e.RelationType,
				"relation_desc": e.RelationDesc,
				"confidence":    e.Confidence,
			})
		}
		for label, rows := range groups {
			query := fmt.Sprintf(`
				UNWIND $rows AS row
				MERGE (s:Concept {node_id: row.source})
				MERGE (t:Concept {node_id: row.target})
				MERGE (s)-[r:`+"`%s`"+` {edge_id: row.edge_id}]->(t)
				SET r.relation_type = row.relation_type,
				    r.relation_desc = row.relation_desc,
				    r.confidence = row.confidence
			`, label)
			if _, err := tx.Run(ctx, query, map[string]any{"rows": rows}); err != nil {
				return nil, fmt.Errorf("upsert %q edges: %w", label, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return UpsertResult{}, err
	}

	c.log.Info("graph upserted", "nodes", res.Nodes, "edges", res.Edges)
	return res, nil
}

// Ingest persists a whole mined document. Convenience over Upsert.
func (c *Client) Ingest(ctx context.Context, doc *model.GraphDocument) (UpsertResult, error) {
	if doc == nil {
		return UpsertResult{}, nil
	}
	return c.Upsert(ctx, doc.Nodes, doc.Edges)
}
