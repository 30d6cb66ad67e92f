// Package inference wraps the hosted text-completion service. The
// response is free text with no guaranteed schema; parsing is left to
// the caller.
package inference

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Completer is the narrow surface the analysis code depends on. Tests
// substitute stubs; production uses Client.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// Client sends chat-completion requests to the OpenAI API.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// NewClient builds a client for the given model and token budget.
func NewClient(apiKey, model string, maxTokens int) *Client {
	return &Client{
		api:       openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends one system+user prompt pair and returns the raw
// response text. The context bounds the call; cancellation and
// deadline errors surface unchanged inside the wrapped error.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("inference returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
