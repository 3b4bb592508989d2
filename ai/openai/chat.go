package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AishSoni/Narada-AI/ai"
	"github.com/AishSoni/Narada-AI/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatModel implements ai.ChatModel using OpenAI-compatible chat APIs.
type ChatModel struct {
	client      llms.Model
	kind        ai.ProviderKind
	temperature float64
	logger      *slog.Logger
}

// newChatModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatModel(config *ai.Config) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.ChatAPIKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatEndpoint()),
		openai.WithToken(token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &ChatModel{
		client:      client,
		kind:        config.ChatProvider,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChatModel creates a new chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Generate produces a free-text completion.
func (m *ChatModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	return m.generate(ctx, system, prompt, false)
}

// GenerateJSON produces a completion constrained to JSON output. Markdown
// code fences are stripped and common JSON defects repaired before returning.
func (m *ChatModel) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	text, err := m.generate(ctx, system, prompt, true)
	if err != nil {
		return "", err
	}
	return repairJSON(stripCodeFences(text)), nil
}

func (m *ChatModel) generate(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	opts := []llms.CallOption{llms.WithTemperature(m.temperature)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	response, err := m.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		m.logger.Error("failed to generate content", "provider", m.kind, "err", err)
		return "", &core.ProviderError{Provider: string(m.kind), Err: err}
	}

	if len(response.Choices) < 1 {
		m.logger.Debug("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}

// stripCodeFences removes markdown code fences that some models wrap around
// JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
