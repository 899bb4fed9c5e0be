package cli

import (
	"fmt"
	"time"

	"github.com/zhangqin/crossgraph/internal/bootstrap"
	"github.com/zhangqin/crossgraph/internal/cache"
	"github.com/zhangqin/crossgraph/internal/config"
	"github.com/zhangqin/crossgraph/internal/evidence"
	"github.com/zhangqin/crossgraph/internal/generate"
	"github.com/zhangqin/crossgraph/internal/graph"
	"github.com/zhangqin/crossgraph/internal/llm"
	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
	"github.com/zhangqin/crossgraph/internal/pipeline"
	"github.com/zhangqin/crossgraph/internal/score"
	"github.com/zhangqin/crossgraph/internal/store"
	"github.com/zhangqin/crossgraph/internal/verify"
	"github.com/zhangqin/crossgraph/internal/worker"
)

// components is the assembled application: every command builds one and uses
// the parts it needs.
type components struct {
	cfg   *model.Config
	log   *logger.Logger
	store *store.Client
	miner *pipeline.Miner
	boot  *bootstrap.Orchestrator
}

// buildComponents wires configuration into the full pipeline. With
// requireStore the absence of a reachable Neo4j is fatal; otherwise the
// process degrades to store-less operation.
func buildComponents(requireStore bool) (*components, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	mode := "prod"
	if verbose {
		mode = "dev"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}
	if provider == nil {
		log.Warn("no generative backend configured, using static fallback table")
	}

	limiter := worker.NewLimiter(cfg.Evidence.RequestsPerSecond, cfg.Evidence.Burst)
	searchTimeout := time.Duration(cfg.Evidence.TimeoutSeconds) * time.Second

	arxiv := evidence.NewArxivSource(evidence.ArxivOptions{
		APIURL:     cfg.Evidence.ArxivURL,
		Timeout:    searchTimeout,
		HTTPProxy:  cfg.Evidence.HTTPProxy,
		HTTPSProxy: cfg.Evidence.HTTPSProxy,
		Limiter:    limiter,
	})
	var secondary evidence.Source
	if cnki := evidence.NewCnkiSource(cfg.Evidence.CnkiURL, cfg.Evidence.CnkiKey, searchTimeout, limiter); cnki.Configured() {
		secondary = cnki
	}

	searchCache := cache.NewMemoryCache(cfg.Evidence.CacheTTL, 2*cfg.Evidence.CacheTTL)
	registry := evidence.NewRegistry(arxiv, secondary, searchCache, cfg.Evidence.CacheTTL, log)
	verifier := verify.NewVerifier(provider, cfg.Evidence.VerifyWorkers, log)
	scorer := score.NewScorer(registry, verifier, log)
	formatter := graph.NewFormatter(generate.RecommendBasics)
	gen := generate.NewGenerator(provider, cfg.Bootstrap.Disciplines, log)

	client, err := store.NewClient(cfg.Store, log)
	if err != nil {
		if requireStore {
			return nil, err
		}
		log.Warn("store unavailable, continuing without it", "error", err)
		client = nil
	}
	if requireStore && client == nil {
		return nil, fmt.Errorf("a Neo4j store is required: set NEO4J_URI (and credentials)")
	}

	// Explicit nil checks: assigning a nil *store.Client into the interfaces
	// directly would make them non-nil.
	var ingestor pipeline.Ingestor
	var bootStore bootstrap.Store
	if client != nil {
		ingestor = client
		bootStore = client
	}

	miner := pipeline.NewMiner(gen, scorer, formatter, ingestor, log)
	boot := bootstrap.New(bootStore, miner, cfg.Bootstrap, log)

	return &components{
		cfg:   cfg,
		log:   log,
		store: client,
		miner: miner,
		boot:  boot,
	}, nil
}
