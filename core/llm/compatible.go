package llm

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// Compatible talks to any OpenAI-compatible endpoint (DeepSeek by default).
type Compatible struct {
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewCompatible builds an adapter for baseURL.
func NewCompatible(apiKey, baseURL, model string, temperature float64, maxTokens int) *Compatible {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Compatible{
		client:      goopenai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}
}

// Chat implements Gateway.
func (c *Compatible) Chat(ctx context.Context, messages []Message) (string, error) {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("compatible api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("compatible: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
