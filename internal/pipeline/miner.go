package pipeline

import (
	"context"

	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/score"
	"github.com/zhangqin/crossgraph/internal/store"
)

// CandidateSource produces the raw association draft for a concept.
type CandidateSource interface {
	Generate(ctx context.Context, concept string) model.GenerationResult
}

// ConfidenceScorer scores one candidate and may attach evidence to it.
type ConfidenceScorer interface {
	Score(ctx context.Context, concept string, assoc *model.Association) float64
}

// DocumentFormatter folds scored candidates into a graph document.
type DocumentFormatter interface {
	Format(concept string, assocs []model.Association, noAssoc []model.NoAssociation) *model.GraphDocument
}

// Ingestor persists a document. Optional: a nil ingestor means mine-only mode.
type Ingestor interface {
	Ingest(ctx context.Context, doc *model.GraphDocument) (store.UpsertResult, error)
}

// Miner runs the full association pipeline for single concepts:
// generate, score each candidate, drop the weak ones, format.
type Miner struct {
	candidates CandidateSource
	scorer     ConfidenceScorer
	formatter  DocumentFormatter
	ingestor   Ingestor
	log        *logger.Logger
}

// NewMiner wires the pipeline. ingestor may be nil.
func NewMiner(candidates CandidateSource, scorer ConfidenceScorer, formatter DocumentFormatter, ingestor Ingestor, log *logger.Logger) *Miner {
	return &Miner{
		candidates: candidates,
		scorer:     scorer,
		formatter:  formatter,
		ingestor:   ingestor,
		log:        log,
	}
}

// Run mines one concept and returns the graph document. It never returns
// nil: the formatter synthesizes a no-association record when everything
// else comes up empty.
func (m *Miner) Run(ctx context.Context, concept string) *model.GraphDocument {
	draft := m.candidates.Generate(ctx, concept)

	kept := make([]model.Association, 0, len(draft.Associations))
	for _, assoc := range draft.Associations {
		conf := m.scorer.Score(ctx, concept, &assoc)
		if conf <= score.AcceptThreshold {
			m.log.Debug("candidate below threshold",
				"concept", concept, "target", assoc.TargetConcept, "confidence", conf)
			continue
		}
		assoc.Confidence = conf
		kept = append(kept, assoc)
	}

	doc := m.formatter.Format(concept, kept, draft.NoAssociation)
	m.log.Info("concept mined",
		"concept", concept, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return doc
}

// MineAndIngest mines a concept and persists the gated result. Without an
// ingestor the document is returned with a zero upsert result.
func (m *Miner) MineAndIngest(ctx context.Context, concept string) (*model.GraphDocument, store.UpsertResult, error) {
	doc := m.Run(ctx, concept)
	if m.ingestor == nil {
		return doc, store.UpsertResult{}, nil
	}
	res, err := m.ingestor.Ingest(ctx, doc)
	if err != nil {
		return doc, store.UpsertResult{}, err
	}
	return doc, res, nil
}
