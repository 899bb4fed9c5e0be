package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/zhangqin/crossgraph/internal/llm"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
)

// Verifier filters retrieved evidence by asking the generative backend
// whether each item's summary supports a claim.
//
// The degradation rules are deliberately asymmetric: with no backend
// configured (or nothing to verify against) items pass through unchanged, and
// a failed backend call retains the item (fail-open) so a flaky backend never
// starves the pipeline. Only an explicit "unsupported" judgment drops an
// item.
type Verifier struct {
	provider llm.Provider
	workers  int
	log      *logger.Logger
}

// NewVerifier creates a verifier. provider may be nil, which turns Filter
// into the identity function.
func NewVerifier(provider llm.Provider, workers int, log *logger.Logger) *Verifier {
	if workers <= 0 {
		workers = 4
	}
	return &Verifier{provider: provider, workers: workers, log: log}
}

// BuildClaim renders the claim string judged against each evidence summary.
func BuildClaim(source, relation, target string) string {
	if relation == "" {
		relation = model.RelationRelated
	}
	return fmt.Sprintf("%s is %s to %s", source, relation, target)
}

type judgment struct {
	Supported bool   `json:"supported"`
	Reason    string `json:"reason"`
}

// Filter returns the subset of items whose summaries support the claim.
// Items without a summary are retained without a backend call.
func (v *Verifier) Filter(ctx context.Context, claim string, items []model.EvidenceItem) []model.EvidenceItem {
	if v.provider == nil || len(items) == 0 {
		return items
	}

	keep := make([]bool, len(items))
	semaphore := make(chan struct{}, v.workers)
	var wg sync.WaitGroup

	for i := range items {
		if items[i].Summary == "" {
			keep[i] = true // nothing to verify against
			continue
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				keep[idx] = true
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			keep[idx] = v.judge(ctx, claim, items[idx])
		}(i)
	}

	wg.Wait()

	out := make([]model.EvidenceItem, 0, len(items))
	for i, ok := range keep {
		if ok {
			out = append(out, items[i])
		}
	}
	return out
}

func (v *Verifier) judge(ctx context.Context, claim string, item model.EvidenceItem) bool {
	prompt := fmt.Sprintf(
		"You judge whether a literature abstract supports a claim.\n"+
			"Claim: %s\n"+
			"Title: %s\n"+
			"Abstract: %s\n"+
			"Answer with strict JSON: {\"supported\": true|false, \"reason\": \"one short sentence\"}",
		claim, item.Title, item.Summary,
	)

	raw, err := v.provider.Generate(ctx, prompt)
	if err != nil {
		// Fail-open: transient backend errors must not drop evidence.
		v.log.Warn("verification call failed, retaining item", "title", item.Title, "error", err)
		return true
	}

	var j judgment
	if err := json.Unmarshal([]byte(extractJSON(raw)), &j); err != nil {
		v.log.Warn("unparseable verification reply, retaining item", "title", item.Title)
		return true
	}

	if !j.Supported {
		v.log.Debug("evidence rejected", "title", item.Title, "reason", j.Reason)
	}
	return j.Supported
}

// extractJSON trims code fences and surrounding prose from a model reply.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
