package score

import (
	"context"

	"github.com/zhangqin/crossgraph/internal/evidence"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/verify"
)

// AcceptThreshold is the emission gate: only associations scoring above it
// reach the formatter. Distinct from the store's ingestion gate (0.6).
const AcceptThreshold = 0.2

const (
	baseWithPrior = 0.8 // candidate already carries citations
	baseDefault   = 0.5
	refuted       = 0.1 // hits existed but none survived verification
	perVerified   = 0.15
	maxAttached   = 3
	searchLimit   = 5
)

// Searcher is the evidence retrieval dependency.
type Searcher interface {
	Search(ctx context.Context, terms []string, limit int) []model.EvidenceItem
}

// Filterer is the semantic verification dependency.
type Filterer interface {
	Filter(ctx context.Context, claim string, items []model.EvidenceItem) []model.EvidenceItem
}

// Scorer combines prior confidence with verified-evidence volume into a
// final confidence score.
type Scorer struct {
	sources  Searcher
	verifier Filterer
	log      *logger.Logger
}

// NewScorer creates a scorer.
func NewScorer(sources Searcher, verifier Filterer, log *logger.Logger) *Scorer {
	return &Scorer{sources: sources, verifier: verifier, log: log}
}

// Score computes the confidence for one candidate association, attaching up
// to three verified evidence items to it in place.
//
// The shape of the formula is deliberate: unverified search hits never raise
// confidence, absence of hits is not disproof (base stands), and each
// verified item adds a generous increment capped at 1.0 so multi-source
// corroboration is rewarded without running away.
func (s *Scorer) Score(ctx context.Context, concept string, assoc *model.Association) float64 {
	base := baseDefault
	if len(assoc.Evidence) > 0 {
		base = baseWithPrior
	}

	terms := evidence.ExpandPair(concept, assoc.TargetConcept)
	hits := s.sources.Search(ctx, terms, searchLimit)
	if len(hits) == 0 {
		return clamp(base)
	}

	claim := verify.BuildClaim(concept, assoc.Relation(), assoc.TargetConcept)
	verified := s.verifier.Filter(ctx, claim, hits)
	if len(verified) == 0 {
		s.log.Debug("all hits rejected by verifier", "concept", concept, "target", assoc.TargetConcept)
		return refuted
	}

	if len(verified) > maxAttached {
		verified = verified[:maxAttached]
	}
	assoc.Evidence = append(assoc.Evidence, verified...)

	return clamp(base + perVerified*float64(len(verified)))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
