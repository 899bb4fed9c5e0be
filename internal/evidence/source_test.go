package evidence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zhangqin/crossgraph/internal/cache"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
)

type stubSource struct {
	name  string
	items []model.EvidenceItem
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(ctx context.Context, terms []string, limit int) ([]model.EvidenceItem, error) {
	s.calls++
	return s.items, s.err
}

func TestRegistrySearch_PrimaryWins(t *testing.T) {
	primary := &stubSource{name: "arxiv", items: []model.EvidenceItem{{Title: "hit"}}}
	secondary := &stubSource{name: "cnki", items: []model.EvidenceItem{{Title: "secondary hit"}}}
	r := NewRegistry(primary, secondary, nil, 0, logger.Nop())

	items := r.Search(context.Background(), []string{"entropy"}, 5)
	if len(items) != 1 || items[0].Title != "hit" {
		t.Errorf("unexpected items: %+v", items)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary consulted despite primary hits: %d calls", secondary.calls)
	}
}

func TestRegistrySearch_SecondaryOnEmptyPrimary(t *testing.T) {
	primary := &stubSource{name: "arxiv"}
	secondary := &stubSource{name: "cnki", items: []model.EvidenceItem{{Title: "secondary hit"}}}
	r := NewRegistry(primary, secondary, nil, 0, logger.Nop())

	items := r.Search(context.Background(), []string{"entropy"}, 5)
	if len(items) != 1 || items[0].Title != "secondary hit" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestRegistrySearch_ErrorsSwallowed(t *testing.T) {
	primary := &stubSource{name: "arxiv", err: errors.New("down")}
	r := NewRegistry(primary, nil, nil, 0, logger.Nop())

	items := r.Search(context.Background(), []string{"entropy"}, 5)
	if items != nil && len(items) != 0 {
		t.Errorf("backend error should yield empty result, got %+v", items)
	}
}

func TestRegistrySearch_TruncatesSummaries(t *testing.T) {
	long := strings.Repeat("长", 300)
	primary := &stubSource{name: "arxiv", items: []model.EvidenceItem{{Title: "t", Summary: long}}}
	r := NewRegistry(primary, nil, nil, 0, logger.Nop())

	items := r.Search(context.Background(), []string{"entropy"}, 5)
	if got := len([]rune(items[0].Summary)); got != 200 {
		t.Errorf("summary length = %d runes, want 200", got)
	}
}

func TestRegistrySearch_CacheHitSkipsSources(t *testing.T) {
	primary := &stubSource{name: "arxiv", items: []model.EvidenceItem{{Title: "hit"}}}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	r := NewRegistry(primary, nil, c, time.Minute, logger.Nop())

	_ = r.Search(context.Background(), []string{"entropy"}, 5)
	_ = r.Search(context.Background(), []string{"entropy"}, 5)
	if primary.calls != 1 {
		t.Errorf("second search should hit the cache, primary called %d times", primary.calls)
	}
}

func TestTruncateSummary_RuneSafe(t *testing.T) {
	short := "短摘要"
	if got := TruncateSummary(short); got != short {
		t.Errorf("short summary modified: %q", got)
	}

	long := strings.Repeat("熵", 250)
	got := TruncateSummary(long)
	if len([]rune(got)) != 200 {
		t.Errorf("truncated to %d runes, want 200", len([]rune(got)))
	}
	if !strings.HasPrefix(long, got) {
		t.Error("truncation must be a prefix")
	}
}

func TestExpandPair_DedupedUnion(t *testing.T) {
	terms := ExpandPair("熵", "信息论")
	want := map[string]bool{"entropy": true, "information theory": true}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v", terms)
	}
	for _, term := range terms {
		if !want[term] {
			t.Errorf("unexpected term %q", term)
		}
	}
}

func TestExpand_FallsBackToLiteral(t *testing.T) {
	terms := Expand("没有别名的概念")
	if len(terms) != 1 || terms[0] != "没有别名的概念" {
		t.Errorf("Expand() = %v", terms)
	}
}
