package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions API.
// It backs both the "openai" and "deepseek" providers; the latter only
// differs in base URL and model naming.
type OpenAIClient struct {
	provider    string
	model       openai.ChatModel
	maxTokens   int64
	temperature float64
	client      *openai.Client
}

const defaultRequestTimeout = 120 * time.Second

// NewOpenAIClient builds a client with defaults against api.openai.com.
func NewOpenAIClient(apiKey string, model openai.ChatModel, maxTokens int, temperature float64) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		provider:    "openai",
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: temperature,
		client:      &cli,
	}, nil
}

// NewDeepSeekClient builds an OpenAI-compatible client against the DeepSeek API.
func NewDeepSeekClient(apiKey, baseURL string, model openai.ChatModel, maxTokens int, temperature float64) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base url required")
	}
	if model == "" {
		model = "deepseek-chat"
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL))
	return &OpenAIClient{
		provider:    "deepseek",
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: temperature,
		client:      &cli,
	}, nil
}

func (c *OpenAIClient) Extract(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil %s client", c.Provider())
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Provider(), err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: no choices returned", c.Provider())
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Provider() string {
	if c == nil || c.provider == "" {
		return "openai"
	}
	return c.provider
}

func (c *OpenAIClient) Model() string { return string(c.model) }
