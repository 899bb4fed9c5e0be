package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	deepSeekBaseURL      = "https://api.deepseek.com/v1"
	deepSeekDefaultModel = "deepseek-chat"
)

// DeepSeekProvider implements Provider for DeepSeek models. The DeepSeek API
// is OpenAI-compatible, so the same client is used with a different base URL.
type DeepSeekProvider struct {
	client *openai.Client
	config Config
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(config Config) (*DeepSeekProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = deepSeekBaseURL
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &DeepSeekProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

// Generate sends the prompt and returns the reply text.
func (p *DeepSeekProvider) Generate(ctx context.Context, prompt string) (string, error) {
	model := p.config.Model
	if model == "" {
		model = deepSeekDefaultModel
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("DeepSeek API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from DeepSeek")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
