package llm

import "context"

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	// Extract sends a fully rendered prompt and returns the raw text response.
	Extract(ctx context.Context, prompt string) (string, error)
	// Provider returns the provider name, e.g. "openai" or "anthropic".
	Provider() string
	// Model returns the model name used for extraction.
	Model() string
}
