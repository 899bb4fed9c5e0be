package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/zhangqin/crossgraph/internal/graph"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/store"
)

type stubCandidates struct {
	result model.GenerationResult
}

func (s *stubCandidates) Generate(ctx context.Context, concept string) model.GenerationResult {
	return s.result
}

type stubScorer struct {
	scores map[string]float64
}

func (s *stubScorer) Score(ctx context.Context, concept string, assoc *model.Association) float64 {
	return s.scores[assoc.TargetConcept]
}

type stubIngestor struct {
	docs []*model.GraphDocument
	err  error
}

func (s *stubIngestor) Ingest(ctx context.Context, doc *model.GraphDocument) (store.UpsertResult, error) {
	s.docs = append(s.docs, doc)
	return store.UpsertResult{Nodes: len(doc.Nodes), Edges: len(doc.Edges)}, s.err
}

func newTestMiner(candidates CandidateSource, scorer ConfidenceScorer, ingestor Ingestor) *Miner {
	return NewMiner(candidates, scorer, graph.NewFormatter(nil), ingestor, logger.Nop())
}

func TestRun_KeepsOnlyCandidatesAboveThreshold(t *testing.T) {
	candidates := &stubCandidates{result: model.GenerationResult{
		Concept: "熵",
		Associations: []model.Association{
			{TargetConcept: "信息论", RelationType: "定义"},
			{TargetConcept: "热力学", RelationType: "从属"},
			{TargetConcept: "占星术", RelationType: "类比"},
		},
	}}
	scorer := &stubScorer{scores: map[string]float64{
		"信息论": 0.95,
		"热力学": 0.21, // just above the 0.2 gate
		"占星术": 0.1,  // refuted
	}}

	doc := newTestMiner(candidates, scorer, nil).Run(context.Background(), "熵")

	if len(doc.Edges) != 2 {
		t.Fatalf("kept %d edges, want 2", len(doc.Edges))
	}
	if doc.Edges[0].TargetNodeID != "信息论" || doc.Edges[1].TargetNodeID != "热力学" {
		t.Errorf("edges = %+v", doc.Edges)
	}
	if doc.Edges[0].Confidence != 0.95 {
		t.Errorf("scored confidence must flow into the edge, got %v", doc.Edges[0].Confidence)
	}
	// Root node plus the two surviving targets.
	if len(doc.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(doc.Nodes))
	}
}

func TestRun_AllCandidatesRejected(t *testing.T) {
	candidates := &stubCandidates{result: model.GenerationResult{
		Concept:      "熵",
		Associations: []model.Association{{TargetConcept: "占星术"}},
	}}
	scorer := &stubScorer{scores: map[string]float64{"占星术": 0.1}}

	doc := newTestMiner(candidates, scorer, nil).Run(context.Background(), "熵")

	if len(doc.Edges) != 0 {
		t.Errorf("expected no edges, got %d", len(doc.Edges))
	}
	if len(doc.Meta.NoAssociation) != 1 {
		t.Error("fully-rejected run should synthesize a no-association record")
	}
}

func TestMineAndIngest_WithoutIngestor(t *testing.T) {
	candidates := &stubCandidates{result: model.GenerationResult{Concept: "熵"}}
	m := newTestMiner(candidates, &stubScorer{}, nil)

	doc, res, err := m.MineAndIngest(context.Background(), "熵")
	if err != nil {
		t.Fatalf("MineAndIngest() error = %v", err)
	}
	if doc == nil {
		t.Fatal("document must not be nil")
	}
	if res.Nodes != 0 || res.Edges != 0 {
		t.Errorf("expected zero upsert result, got %+v", res)
	}
}

func TestMineAndIngest_PassesDocumentToIngestor(t *testing.T) {
	candidates := &stubCandidates{result: model.GenerationResult{
		Concept:      "熵",
		Associations: []model.Association{{TargetConcept: "信息论", RelationType: "定义"}},
	}}
	scorer := &stubScorer{scores: map[string]float64{"信息论": 0.9}}
	ingestor := &stubIngestor{}
	m := newTestMiner(candidates, scorer, ingestor)

	doc, res, err := m.MineAndIngest(context.Background(), "熵")
	if err != nil {
		t.Fatalf("MineAndIngest() error = %v", err)
	}
	if len(ingestor.docs) != 1 || ingestor.docs[0] != doc {
		t.Error("mined document must reach the ingestor")
	}
	if res.Nodes != 2 || res.Edges != 1 {
		t.Errorf("res = %+v", res)
	}
}

func TestMineAndIngest_IngestError(t *testing.T) {
	candidates := &stubCandidates{result: model.GenerationResult{Concept: "熵"}}
	ingestor := &stubIngestor{err: errors.New("store down")}
	m := newTestMiner(candidates, &stubScorer{}, ingestor)

	doc, _, err := m.MineAndIngest(context.Background(), "熵")
	if err == nil {
		t.Error("ingest error must surface")
	}
	if doc == nil {
		t.Error("document should come back even when ingestion fails")
	}
}
