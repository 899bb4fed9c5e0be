package evidence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zhangqin/crossgraph/internal/cache"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
)

// summaryLimit bounds evidence summaries handed downstream; full text is out
// of scope.
const summaryLimit = 200

// Source is the uniform interface to a literature search backend. All
// supplied terms must co-occur in a hit (AND semantics). Implementations
// report backend trouble through the error; they never panic and never
// partially fail.
type Source interface {
	// Name returns the source name.
	Name() string

	// Search returns up to limit evidence items matching all terms.
	Search(ctx context.Context, terms []string, limit int) ([]model.EvidenceItem, error)
}

// Registry fronts the configured sources: the primary source is always
// consulted, the secondary only when the primary yields nothing. Backend
// errors are logged and swallowed into empty results - a search never fails
// its caller.
type Registry struct {
	primary   Source
	secondary Source
	cache     cache.Cache
	cacheTTL  time.Duration
	log       *logger.Logger
}

// NewRegistry creates a source registry. secondary and c may be nil.
func NewRegistry(primary, secondary Source, c cache.Cache, ttl time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		primary:   primary,
		secondary: secondary,
		cache:     c,
		cacheTTL:  ttl,
		log:       log,
	}
}

// Search queries the sources for evidence where all terms co-occur.
func (r *Registry) Search(ctx context.Context, terms []string, limit int) []model.EvidenceItem {
	if len(terms) == 0 || limit <= 0 {
		return nil
	}

	key := cache.SearchKey(terms, limit)
	if r.cache != nil {
		if raw, ok := r.cache.Get(key); ok {
			var items []model.EvidenceItem
			if err := json.Unmarshal(raw, &items); err == nil {
				return items
			}
		}
	}

	items := r.searchSource(ctx, r.primary, terms, limit)
	if len(items) == 0 && r.secondary != nil {
		items = r.searchSource(ctx, r.secondary, terms, limit)
	}

	for i := range items {
		items[i].Summary = TruncateSummary(items[i].Summary)
	}

	if r.cache != nil {
		if raw, err := json.Marshal(items); err == nil {
			_ = r.cache.Set(key, raw, r.cacheTTL)
		}
	}

	return items
}

func (r *Registry) searchSource(ctx context.Context, s Source, terms []string, limit int) []model.EvidenceItem {
	if s == nil {
		return nil
	}
	items, err := s.Search(ctx, terms, limit)
	if err != nil {
		r.log.Warn("evidence search failed", "source", s.Name(), "error", err)
		return nil
	}
	return items
}

// TruncateSummary bounds a summary to summaryLimit runes.
func TruncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryLimit {
		return s
	}
	return string(runes[:summaryLimit])
}
