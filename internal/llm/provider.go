package llm

import "context"

// Provider defines the interface for text-generation backends.
type Provider interface {
	// Generate sends a single-turn generation request and returns the response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// Name returns the name of this provider.
	Name() string
}
