package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zhangqin/crossgraph/internal/model"
)

// Load resolves the process configuration: built-in defaults, then the viper
// config file / KG_* environment (bound by the CLI), then the well-known flat
// environment variables the deployment scripts already use (OPENAI_API_KEY,
// NEO4J_URI, KG_SEED_CONCEPTS, ...). A .env file in the working directory is
// loaded first if present.
func Load() (*model.Config, error) {
	_ = godotenv.Load(".env")

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyFlatEnv(cfg)

	if cfg.Bootstrap.MaxCalls < 0 {
		cfg.Bootstrap.MaxCalls = 0
	}
	return cfg, nil
}

// applyFlatEnv overlays the flat environment variables onto cfg. These take
// precedence over the config file so containerized deployments keep working
// without one.
func applyFlatEnv(cfg *model.Config) {
	if v := envStr("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if cfg.LLM.Provider == "" {
		// Provider auto-detection: whichever credential is present wins.
		if envStr("OPENAI_API_KEY") != "" {
			cfg.LLM.Provider = "openai"
		} else if envStr("DEEPSEEK_API_KEY") != "" {
			cfg.LLM.Provider = "deepseek"
		}
	}

	switch cfg.LLM.Provider {
	case "openai":
		overlay(&cfg.LLM.APIKey, envStr("OPENAI_API_KEY"))
		overlay(&cfg.LLM.BaseURL, envStr("OPENAI_BASE_URL"))
		overlay(&cfg.LLM.Model, envStr("OPENAI_MODEL"))
	case "deepseek":
		overlay(&cfg.LLM.APIKey, envStr("DEEPSEEK_API_KEY"))
		overlay(&cfg.LLM.BaseURL, envStr("DEEPSEEK_BASE_URL"))
		overlay(&cfg.LLM.Model, envStr("DEEPSEEK_MODEL"))
	}

	overlay(&cfg.Store.URI, envStr("NEO4J_URI"))
	overlay(&cfg.Store.User, envStr("NEO4J_USER"))
	overlay(&cfg.Store.Password, envStr("NEO4J_PASSWORD"))
	overlay(&cfg.Store.Database, envStr("NEO4J_DATABASE"))

	overlay(&cfg.Evidence.CnkiURL, envStr("CNKI_API_URL"))
	overlay(&cfg.Evidence.CnkiKey, envStr("CNKI_API_KEY"))

	if raw := envStr("KG_SEED_CONCEPTS"); raw != "" {
		var seeds []string
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				seeds = append(seeds, s)
			}
		}
		if len(seeds) > 0 {
			cfg.Bootstrap.Seeds = seeds
		}
	}
	overlayInt(&cfg.Bootstrap.MinNodes, envStr("KG_BOOTSTRAP_MIN_NODES"))
	overlayInt(&cfg.Bootstrap.MinEdges, envStr("KG_BOOTSTRAP_MIN_EDGES"))
	overlayInt(&cfg.Bootstrap.MaxCalls, envStr("KG_BOOTSTRAP_MAX_CALLS"))
}

func envStr(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, v string) {
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
