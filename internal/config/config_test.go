package config

import (
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"DEEPSEEK_API_KEY", "DEEPSEEK_MODEL", "DEEPSEEK_BASE_URL",
		"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE",
		"CNKI_API_URL", "CNKI_API_KEY",
		"KG_SEED_CONCEPTS", "KG_BOOTSTRAP_MIN_NODES", "KG_BOOTSTRAP_MIN_EDGES", "KG_BOOTSTRAP_MAX_CALLS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Provider != "" {
		t.Errorf("provider = %q, want disabled", cfg.LLM.Provider)
	}
	if cfg.Bootstrap.MinNodes != 30 || cfg.Bootstrap.MinEdges != 20 || cfg.Bootstrap.MaxCalls != 60 {
		t.Errorf("bootstrap targets = %+v", cfg.Bootstrap)
	}
	if len(cfg.Bootstrap.Seeds) == 0 {
		t.Error("default seeds must not be empty")
	}
	if cfg.Server.Addr != ":8001" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Evidence.SearchLimit != 5 {
		t.Errorf("search limit = %d", cfg.Evidence.SearchLimit)
	}
}

func TestLoad_ProviderAutoDetection(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestLoad_ExplicitProviderWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("DEEPSEEK_API_KEY", "sk-deepseek")
	t.Setenv("LLM_PROVIDER", "DeepSeek")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.Provider != "deepseek" {
		t.Errorf("provider = %q, want deepseek", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "sk-deepseek" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestLoad_StoreAndSeedsOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("KG_SEED_CONCEPTS", " 熵 , 博弈论 ,, 信息论 ")
	t.Setenv("KG_BOOTSTRAP_MIN_NODES", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.URI != "bolt://graph:7687" || cfg.Store.Password != "secret" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.User != "neo4j" {
		t.Errorf("default user = %q", cfg.Store.User)
	}

	want := []string{"熵", "博弈论", "信息论"}
	if len(cfg.Bootstrap.Seeds) != len(want) {
		t.Fatalf("seeds = %v", cfg.Bootstrap.Seeds)
	}
	for i := range want {
		if cfg.Bootstrap.Seeds[i] != want[i] {
			t.Errorf("seeds[%d] = %q, want %q", i, cfg.Bootstrap.Seeds[i], want[i])
		}
	}
	if cfg.Bootstrap.MinNodes != 50 {
		t.Errorf("min nodes = %d, want 50", cfg.Bootstrap.MinNodes)
	}
}

func TestLoad_NegativeBudgetClamped(t *testing.T) {
	clearEnv(t)
	t.Setenv("KG_BOOTSTRAP_MAX_CALLS", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bootstrap.MaxCalls != 0 {
		t.Errorf("max calls = %d, want 0", cfg.Bootstrap.MaxCalls)
	}
}
