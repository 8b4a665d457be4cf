// Package llm provides language model client interfaces and implementations.
package llm

import (
	"context"
	"fmt"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON object reply when it supports it.
	JSON bool
}

// ChatMessage represents a chat message for the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for language model providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of language model provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Options configures a provider client.
type Options struct {
	APIKey string
	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string
}

// NewClient creates a new client for the given provider.
func NewClient(provider Provider, opts Options) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(opts)
	case ProviderAnthropic:
		return NewAnthropicClient(opts)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// Prompt builds a single-turn request.
func Prompt(model, system, user string) *CompletionRequest {
	return &CompletionRequest{
		Model:    model,
		System:   system,
		Messages: []ChatMessage{{Role: RoleUser, Content: user}},
	}
}
