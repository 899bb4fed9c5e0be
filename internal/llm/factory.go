package llm

import (
	"fmt"
	"strings"

	"github.com/zhangqin/crossgraph/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider name
// returns (nil, nil): the generative backend is disabled and callers fall
// back to static behavior.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "deepseek":
		return NewDeepSeekProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, deepseek)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider: mc.Provider,
		Model:    mc.Model,
		APIKey:   mc.APIKey,
		BaseURL:  mc.BaseURL,
		Timeout:  mc.TimeoutSeconds,
	}
}
