package score

import (
	"context"
	"math"
	"testing"

	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
)

type fakeSearcher struct {
	hits []model.EvidenceItem
}

func (f *fakeSearcher) Search(ctx context.Context, terms []string, limit int) []model.EvidenceItem {
	if len(f.hits) > limit {
		return f.hits[:limit]
	}
	return f.hits
}

type fakeFilterer struct {
	keep int // how many of the input items to keep
}

func (f *fakeFilterer) Filter(ctx context.Context, claim string, items []model.EvidenceItem) []model.EvidenceItem {
	if f.keep >= len(items) {
		return items
	}
	return items[:f.keep]
}

func hits(n int) []model.EvidenceItem {
	out := make([]model.EvidenceItem, n)
	for i := range out {
		out[i] = model.EvidenceItem{Title: "paper", Summary: "summary"}
	}
	return out
}

func TestScore_NoHitsKeepsBase(t *testing.T) {
	tests := []struct {
		name  string
		prior []model.EvidenceItem
		want  float64
	}{
		{"no prior evidence", nil, 0.5},
		{"candidate carries citations", []model.EvidenceItem{{Title: "cited"}}, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(&fakeSearcher{}, &fakeFilterer{keep: 99}, logger.Nop())
			assoc := &model.Association{TargetConcept: "信息论", Evidence: tt.prior}

			got := s.Score(context.Background(), "熵", assoc)
			if got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_AllHitsRefuted(t *testing.T) {
	s := NewScorer(&fakeSearcher{hits: hits(4)}, &fakeFilterer{keep: 0}, logger.Nop())
	assoc := &model.Association{TargetConcept: "信息论"}

	got := s.Score(context.Background(), "熵", assoc)
	if got != 0.1 {
		t.Errorf("Score() = %v, want 0.1 when every hit is rejected", got)
	}
	if len(assoc.Evidence) != 0 {
		t.Errorf("refuted candidate must not gain evidence, got %d items", len(assoc.Evidence))
	}
}

func TestScore_VerifiedEvidenceRaisesConfidence(t *testing.T) {
	tests := []struct {
		name     string
		prior    []model.EvidenceItem
		verified int
		want     float64
	}{
		{"one verified", nil, 1, 0.65},
		{"two verified", nil, 2, 0.80},
		{"three verified", nil, 3, 0.95},
		{"capped at one", []model.EvidenceItem{{Title: "cited"}}, 3, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(&fakeSearcher{hits: hits(5)}, &fakeFilterer{keep: tt.verified}, logger.Nop())
			assoc := &model.Association{TargetConcept: "信息论", Evidence: tt.prior}

			got := s.Score(context.Background(), "熵", assoc)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_AttachesAtMostThreeItems(t *testing.T) {
	s := NewScorer(&fakeSearcher{hits: hits(5)}, &fakeFilterer{keep: 5}, logger.Nop())
	assoc := &model.Association{TargetConcept: "信息论"}

	_ = s.Score(context.Background(), "熵", assoc)
	if len(assoc.Evidence) != 3 {
		t.Errorf("attached %d evidence items, want 3", len(assoc.Evidence))
	}
}

func TestScore_MonotonicInVerifiedCount(t *testing.T) {
	prev := 0.0
	for n := 0; n <= 3; n++ {
		s := NewScorer(&fakeSearcher{hits: hits(3)}, &fakeFilterer{keep: n}, logger.Nop())
		assoc := &model.Association{TargetConcept: "信息论"}
		got := s.Score(context.Background(), "熵", assoc)
		if n == 0 {
			prev = got
			continue
		}
		if got < prev {
			t.Errorf("score with %d verified items (%v) below score with %d (%v)", n, got, n-1, prev)
		}
		prev = got
	}
}
