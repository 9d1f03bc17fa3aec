package llm

import (
	"fmt"
	"os"
)

// envKeys maps provider names to the environment variable holding their
// API key. Ollama is absent because it authenticates by host, not key.
var envKeys = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"google":    "GOOGLE_API_KEY",
}

// NewProvider builds the generation provider for the given name. API keys
// come from the environment; Ollama reads OLLAMA_HOST and falls back to
// the local default.
func NewProvider(name string, model string) (Provider, error) {
	if name == "ollama" {
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil
	}

	envKey, ok := envKeys[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	apiKey := os.Getenv(envKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is not set", envKey)
	}

	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey, model), nil
	case "openai":
		return NewOpenAIProvider(apiKey, model), nil
	default:
		return NewGoogleProvider(apiKey, model), nil
	}
}
