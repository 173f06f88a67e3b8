// Package llm wraps the downstream text generator. The orchestrator is
// its only consumer; the assembler never inspects generation results.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/evidentic/ragcore/config"
)

// Usage reports generator token consumption.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Provider generates text from a prompt.
type Provider interface {
	Generate(ctx context.Context, system string, prompt string) (string, *Usage, error)
}

// NewProvider builds a generation provider from config.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "dashscope", "qwen":
		// DashScope/Qwen expose OpenAI-compatible chat endpoints.
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

type openAIProvider struct {
	client openai.Client
	cfg    config.LLMConfig
}

func newOpenAIProvider(cfg config.LLMConfig) *openAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIProvider{client: openai.NewClient(opts...), cfg: cfg}
}

func (p *openAIProvider) Generate(ctx context.Context, system string, prompt string) (string, *Usage, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(p.cfg.Model),
	}
	if p.cfg.Temperature > 0 {
		params.Temperature = openai.Float(p.cfg.Temperature)
	}
	if p.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.cfg.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", nil, fmt.Errorf("generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("completion response contained no choices")
	}
	usage := &Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return resp.Choices[0].Message.Content, usage, nil
}
