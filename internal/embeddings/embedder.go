package embeddings

import (
	"context"
	"fmt"
	"os"

	chromem "github.com/philippgille/chromem-go"

	"flashdeck/internal/config"
)

// Embedder defines the interface for generating text embeddings. Card
// text is embedded one string at a time.
type Embedder interface {
	// Embed generates an embedding vector for the text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// ToChromemFunc converts an Embedder into a chromem.EmbeddingFunc.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.Embed(ctx, text)
	}
}

// NewEmbedder creates an embedder for the given provider and model.
// API keys come from the conventional environment variables.
func NewEmbedder(provider config.ProviderType, model string) (Embedder, error) {
	switch provider {
	case config.ProviderOpenAI, config.ProviderAnthropic:
		// Anthropic has no embedding API; OpenAI embeddings are the
		// conventional companion.
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return NewOpenAIEmbedder(apiKey, OpenAIModel(model)), nil

	case config.ProviderGoogle:
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set")
		}
		return NewGoogleEmbedder(apiKey, GoogleModel(model)), nil

	case config.ProviderOllama:
		return NewOllamaEmbedder(model, 768, os.Getenv("OLLAMA_HOST")), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
