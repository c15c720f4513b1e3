package llm

import "context"

// Provider defines the interface for chat-completion backends.
// Implementations handle protocol-specific details such as request
// formatting, authentication, and response parsing.
type Provider interface {
	// Complete sends a chat completion request and returns the full
	// response. opts may be nil to use the provider's configured defaults.
	Complete(ctx context.Context, messages []Message, opts *CallOptions) (*Response, error)
}

// Embedder computes embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, input string) ([]float64, error)
}

// Config holds common configuration for LLM providers.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	EmbedModel  string
	MaxTokens   int
	Temperature float32
}

// CallOptions overrides per-request generation parameters. Zero-valued
// fields fall back to the provider's configured defaults.
type CallOptions struct {
	Model       string
	MaxTokens   int
	Temperature *float32
}
