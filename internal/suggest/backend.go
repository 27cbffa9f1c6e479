package suggest

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Backend is the text-generation service the synthesizer calls once per
// final utterance. Implementations return the raw model text; the
// synthesizer owns all parsing and repair.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIBackend implements Backend against the OpenAI chat completions
// API.
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIBackend creates a chat-completions backend. The client is
// constructed here so tests can substitute a fake Backend instead of
// sharing process-wide state.
func NewOpenAIBackend(apiKey, model string, temperature float32) *OpenAIBackend {
	return &OpenAIBackend{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}
}

// Complete issues one chat completion request and returns the raw
// assistant message content.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Temperature: b.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
