package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/store"
)

// Store is the persistence surface the orchestrator needs: graph counts,
// the two meta singletons, and a way to pick an expansion concept once the
// seed list runs dry.
type Store interface {
	Counts(ctx context.Context) (model.GraphCounts, error)
	RandomConcept(ctx context.Context) (string, error)
	SetProgress(ctx context.Context, status string, inProgress bool) error
	SetBootstrapped(ctx context.Context, status string) error
	Progress(ctx context.Context) (model.BootstrapProgress, error)
	Bootstrapped(ctx context.Context) (model.BootstrapMarker, error)
}

// Miner mines one concept and persists the gated result.
type Miner interface {
	MineAndIngest(ctx context.Context, concept string) (*model.GraphDocument, store.UpsertResult, error)
}

// Orchestrator seeds an empty graph up to the configured node/edge targets
// under a hard call budget. At most one run is active per process; the meta
// records make the outcome visible across restarts.
type Orchestrator struct {
	store   Store
	miner   Miner
	cfg     model.BootstrapConfig
	log     *logger.Logger
	running atomic.Bool

	// Injectable for tests.
	sleep   func(time.Duration)
	shuffle func([]string)
}

// New creates an orchestrator. store may be nil; Run then degrades to a
// logged no-op because there is nothing to seed into.
func New(st Store, miner Miner, cfg model.BootstrapConfig, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store: st,
		miner: miner,
		cfg:   cfg,
		log:   log.With("component", "bootstrap"),
		sleep: time.Sleep,
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

// Trigger starts a run in the background. Returns false when a run is
// already active.
func (o *Orchestrator) Trigger() bool {
	if o.running.Load() {
		return false
	}
	go func() {
		if err := o.Run(context.Background()); err != nil {
			o.log.Error("bootstrap run failed", "error", err)
		}
	}()
	return true
}

// Running reports whether a run is active in this process.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Run executes one bootstrap pass. Re-entrant calls are no-ops; per-concept
// mining failures are logged and skipped so one bad seed cannot sink the
// whole run.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		o.log.Info("bootstrap already running, skipping")
		return nil
	}
	defer o.running.Store(false)

	if o.store == nil {
		o.log.Warn("no store configured, bootstrap skipped")
		return nil
	}

	counts, err := o.store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: initial counts: %w", err)
	}
	if o.met(counts) {
		o.log.Info("targets already met", "nodes", counts.Nodes, "edges", counts.Edges)
		return o.finish(ctx, counts, 0)
	}

	if err := o.store.SetProgress(ctx, "running", true); err != nil {
		o.log.Warn("progress update failed", "error", err)
	}

	seeds := append([]string(nil), o.cfg.Seeds...)
	if len(seeds) == 0 {
		seeds = model.DefaultSeeds()
	}
	o.shuffle(seeds)

	tried := make(map[string]bool)
	calls := 0

	for calls < o.cfg.MaxCalls {
		if err := ctx.Err(); err != nil {
			return err
		}

		counts, err = o.store.Counts(ctx)
		if err != nil {
			return fmt.Errorf("bootstrap: counts: %w", err)
		}
		if o.met(counts) {
			break
		}

		concept := o.next(ctx, seeds, tried)
		if concept == "" {
			o.log.Warn("no concepts left to mine", "calls", calls)
			break
		}
		tried[concept] = true

		if err := o.store.SetProgress(ctx, "mining:"+concept, true); err != nil {
			o.log.Warn("progress update failed", "error", err)
		}

		calls++
		if _, _, err := o.miner.MineAndIngest(ctx, concept); err != nil {
			o.log.Warn("concept skipped", "concept", concept, "error", err)
		}

		if o.cfg.Pacing > 0 {
			o.sleep(o.cfg.Pacing)
		}
	}

	counts, err = o.store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: final counts: %w", err)
	}
	return o.finish(ctx, counts, calls)
}

// next picks the first untried seed, then falls back to a random concept
// already in the graph so expansion can continue past the seed list.
func (o *Orchestrator) next(ctx context.Context, seeds []string, tried map[string]bool) string {
	for _, s := range seeds {
		if !tried[s] {
			return s
		}
	}
	name, err := o.store.RandomConcept(ctx)
	if err != nil {
		o.log.Warn("random concept lookup failed", "error", err)
		return ""
	}
	if tried[name] {
		return ""
	}
	return name
}

func (o *Orchestrator) met(c model.GraphCounts) bool {
	return c.Nodes >= int64(o.cfg.MinNodes) && c.Edges >= int64(o.cfg.MinEdges)
}

func (o *Orchestrator) finish(ctx context.Context, counts model.GraphCounts, calls int) error {
	status := fmt.Sprintf("ready_%d_%d", counts.Nodes, counts.Edges)
	if !o.met(counts) {
		status = fmt.Sprintf("partial_%d_%d_%d", counts.Nodes, counts.Edges, calls)
	}

	if err := o.store.SetBootstrapped(ctx, status); err != nil {
		return fmt.Errorf("bootstrap: write marker: %w", err)
	}
	if err := o.store.SetProgress(ctx, status, false); err != nil {
		o.log.Warn("progress update failed", "error", err)
	}

	o.log.Info("bootstrap finished",
		"status", status, "nodes", counts.Nodes, "edges", counts.Edges, "calls", calls)
	return nil
}

// Status assembles the externally visible bootstrap state.
func (o *Orchestrator) Status(ctx context.Context) model.BootstrapStatus {
	st := model.BootstrapStatus{
		Target: model.BootstrapTarget{
			MinNodes: o.cfg.MinNodes,
			MinEdges: o.cfg.MinEdges,
			MaxCalls: o.cfg.MaxCalls,
		},
	}
	if o.store == nil {
		return st
	}

	if counts, err := o.store.Counts(ctx); err == nil {
		st.Counts = counts
	}
	if p, err := o.store.Progress(ctx); err == nil {
		st.Progress = p
	}
	if m, err := o.store.Bootstrapped(ctx); err == nil {
		st.Bootstrapped = m
	}
	st.Progress.InProgress = st.Progress.InProgress || o.running.Load()
	st.Ready = st.Bootstrapped.Done || o.met(st.Counts)
	return st
}
