package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zhangqin/crossgraph/internal/model"
)

// Counts returns the concept node and relationship totals.
func (c *Client) Counts(ctx context.Context) (model.GraphCounts, error) {
	var counts model.GraphCounts
	if c == nil {
		return counts, nil
	}

	session := c.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	for _, q := range []struct {
		cypher string
		dest   *int64
	}{
		{`MATCH (n:Concept) RETURN count(n) AS c`, &counts.Nodes},
		{`MATCH (:Concept)-[r]->(:Concept) RETURN count(r) AS c`, &counts.Edges},
	} {
		result, err := session.Run(ctx, q.cypher, nil)
		if err != nil {
			return counts, err
		}
		if result.Next(ctx) {
			*q.dest = asInt64(value(result.Record(), "c"))
		}
		if err := result.Err(); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

// RandomConcept picks one concept name at random, for bootstrap expansion
// when the seed list is exhausted. Empty string means the graph is empty.
func (c *Client) RandomConcept(ctx context.Context) (string, error) {
	if c == nil {
		return "", nil
	}

	session := c.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.Run(ctx, `
		MATCH (n:Concept)
		WHERE n.name IS NOT NULL AND n.name <> ''
		RETURN n.name AS name
		ORDER BY rand()
		LIMIT 1
	`, nil)
	if err != nil {
		return "", err
	}
	name := ""
	if result.Next(ctx) {
		name = asString(value(result.Record(), "name"))
	}
	return name, result.Err()
}

const graphReturn = `RETURN n, r, m, startNode(r).node_id AS src, endNode(r).node_id AS dst`

// All returns the whole concept graph.
func (c *Client) All(ctx context.Context) ([]model.Node, []model.Edge, error) {
	return c.collectGraph(ctx, `
		MATCH (n:Concept)
		OPTIONAL MATCH (n)-[r]->(m:Concept)
		`+graphReturn, nil)
}

// SearchNodes returns concepts whose name or definition contains the keyword,
// case-insensitively, together with their immediate neighborhood.
func (c *Client) SearchNodes(ctx context.Context, keyword string) ([]model.Node, []model.Edge, error) {
	return c.collectGraph(ctx, `
		MATCH (n:Concept)
		WHERE toLower(n.name) CONTAINS toLower($keyword)
		   OR toLower(coalesce(n.definition, '')) CONTAINS toLower($keyword)
		OPTIONAL MATCH (n)-[r]-(m:Concept)
		`+graphReturn, map[string]any{"keyword": keyword})
}

// FilterDomain returns the subgraph of one discipline.
func (c *Client) FilterDomain(ctx context.Context, domain string) ([]model.Node, []model.Edge, error) {
	return c.collectGraph(ctx, `
		MATCH (n:Concept {domain: $domain})
		OPTIONAL MATCH (n)-[r]-(m:Concept {domain: $domain})
		`+graphReturn, map[string]any{"domain": domain})
}

// MultiDomain returns the subgraph spanning the given disciplines, including
// the edges that cross between them.
func (c *Client) MultiDomain(ctx context.Context, domains []string) ([]model.Node, []model.Edge, error) {
	return c.collectGraph(ctx, `
		MATCH (n:Concept)
		WHERE n.domain IN $domains
		OPTIONAL MATCH (n)-[r]-(m:Concept)
		WHERE m.domain IN $domains
		`+graphReturn, map[string]any{"domains": domains})
}

// NodeDetail returns one concept by exact name plus its neighborhood. The
// first return is nil when the concept does not exist.
func (c *Client) NodeDetail(ctx context.Context, name string) (*model.Node, []model.Node, []model.Edge, error) {
	nodes, edges, err := c.collectGraph(ctx, `
		MATCH (n:Concept {name: $name})
		OPTIONAL MATCH (n)-[r]-(m:Concept)
		`+graphReturn, map[string]any{"name": name})
	if err != nil {
		return nil, nil, nil, err
	}

	var center *model.Node
	for i := range nodes {
		if nodes[i].Name == name {
			center = &nodes[i]
			break
		}
	}
	if center == nil {
		return nil, nil, nil, nil
	}
	return center, nodes, edges, nil
}

// ClearAll wipes the database, meta records included.
func (c *Client) ClearAll(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("store: not configured")
	}

	session := c.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `MATCH (n) DETACH DELETE n`, nil)
	})
	return err
}

func (c *Client) collectGraph(ctx context.Context, cypher string, params map[string]any) ([]model.Node, []model.Edge, error) {
	if c == nil {
		return nil, nil, nil
	}

	session := c.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, nil, err
	}

	col := newCollector()
	for result.Next(ctx) {
		rec := result.Record()
		col.addNode(value(rec, "n"))
		col.addNode(value(rec, "m"))
		col.addEdge(value(rec, "r"), asString(value(rec, "src")), asString(value(rec, "dst")))
	}
	if err := result.Err(); err != nil {
		return nil, nil, err
	}
	return col.nodes, col.edges, nil
}

// collector dedupes rows: undirected neighborhood matches return the same
// node or relationship on multiple records.
type collector struct {
	nodes     []model.Node
	edges     []model.Edge
	seenNodes map[string]bool
	seenEdges map[string]bool
}

func newCollector() *collector {
	return &collector{
		nodes:     []model.Node{},
		edges:     []model.Edge{},
		seenNodes: make(map[string]bool),
		seenEdges: make(map[string]bool),
	}
}

func (col *collector) addNode(raw any) {
	n, ok := raw.(neo4j.Node)
	if !ok {
		return
	}
	id := asString(n.Props["node_id"])
	if id == "" || col.seenNodes[id] {
		return
	}
	col.seenNodes[id] = true
	col.nodes = append(col.nodes, model.Node{
		NodeID:     id,
		Name:       asString(n.Props["name"]),
		Domain:     asString(n.Props["domain"]),
		Definition: asString(n.Props["definition"]),
		Confidence: asFloat(n.Props["confidence"]),
	})
}

func (col *collector) addEdge(raw any, src, dst string) {
	r, ok := raw.(neo4j.Relationship)
	if !ok {
		return
	}
	id := asString(r.Props["edge_id"])
	if id == "" || col.seenEdges[id] {
		return
	}
	col.seenEdges[id] = true

	relation := asString(r.Props["relation_type"])
	if relation == "" {
		relation = r.Type
	}
	col.edges = append(col.edges, model.Edge{
		EdgeID:       id,
		SourceNodeID: src,
		TargetNodeID: dst,
		RelationType: relation,
		RelationDesc: asString(r.Props["relation_desc"]),
		Confidence:   asFloat(r.Props["confidence"]),
	})
}

func value(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	}
	return 0
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	}
	return 0
}
