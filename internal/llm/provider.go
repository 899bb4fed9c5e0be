package llm

import "context"

// Provider is the capability interface over a generative backend. Generate
// sends one prompt and returns the raw text of the reply; callers parse it.
// Implementations never retry - a failed call is the caller's signal to
// degrade.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate sends the prompt and returns the model's reply text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds generative backend configuration.
type Config struct {
	// Provider name: "openai", "deepseek", "" (disabled).
	Provider string

	// Model name (provider-specific; each provider has its own default).
	Model string

	// APIKey authenticates against the backend.
	APIKey string

	// BaseURL overrides the API endpoint (self-hosted gateways, proxies).
	BaseURL string

	// Timeout bounds a single Generate call, in seconds.
	Timeout int
}
