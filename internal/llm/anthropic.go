package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	model     anthropic.Model
	maxTokens int64
	client    anthropic.Client
}

// NewAnthropicClient builds a client against api.anthropic.com.
func NewAnthropicClient(apiKey string, model anthropic.Model, maxTokens int) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = anthropic.Model("claude-sonnet-4-20250514")
	}
	return &AnthropicClient{
		model:     model,
		maxTokens: int64(maxTokens),
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

func (c *AnthropicClient) Extract(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil anthropic client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()
	resp, err := c.client.Messages.New(reqCtx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return sb.String(), nil
}

func (c *AnthropicClient) Provider() string { return "anthropic" }

func (c *AnthropicClient) Model() string { return string(c.model) }
