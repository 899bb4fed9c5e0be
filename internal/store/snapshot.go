package store

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/zhangqin/crossgraph/internal/model"
)

//go:embed snapshot.json
var snapshotRaw []byte

var (
	snapshotOnce sync.Once
	snapshotDoc  struct {
		Nodes []model.Node `json:"nodes"`
		Edges []model.Edge `json:"edges"`
	}
)

func loadSnapshot() {
	snapshotOnce.Do(func() {
		// The snapshot ships inside the binary; a decode failure is a build
		// defect, and the graceful answer at runtime is an empty graph.
		_ = json.Unmarshal(snapshotRaw, &snapshotDoc)
	})
}

// SnapshotAll returns the embedded offline graph, used when no store is
// configured so read endpoints still answer with something plausible.
func SnapshotAll() ([]model.Node, []model.Edge) {
	loadSnapshot()
	nodes := make([]model.Node, len(snapshotDoc.Nodes))
	copy(nodes, snapshotDoc.Nodes)
	edges := make([]model.Edge, len(snapshotDoc.Edges))
	copy(edges, snapshotDoc.Edges)
	return nodes, edges
}

// SnapshotSearch filters the embedded graph by keyword over name and
// definition, keeping only edges whose both endpoints survive.
func SnapshotSearch(keyword string) ([]model.Node, []model.Edge) {
	allNodes, allEdges := SnapshotAll()
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return allNodes, allEdges
	}

	kept := make([]model.Node, 0, len(allNodes))
	ids := make(map[string]bool)
	for _, n := range allNodes {
		if strings.Contains(strings.ToLower(n.Name), kw) ||
			strings.Contains(strings.ToLower(n.Definition), kw) {
			kept = append(kept, n)
			ids[n.NodeID] = true
		}
	}

	edges := make([]model.Edge, 0, len(allEdges))
	for _, e := range allEdges {
		if ids[e.SourceNodeID] && ids[e.TargetNodeID] {
			edges = append(edges, e)
		}
	}
	return kept, edges
}
