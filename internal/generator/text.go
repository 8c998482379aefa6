package generator

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spec-kit/content-service/internal/config"
)

// ChatCompletions generates text through an OpenAI compatible endpoint.
type ChatCompletions struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewChatCompletions builds a client for cfg.BaseURL.
func NewChatCompletions(cfg config.AIConfig) *ChatCompletions {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &ChatCompletions{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Complete sends prompt as a single user message.
func (c *ChatCompletions) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}
	return resp.Choices[0].Message.Content, nil
}
