package llm

import (
	"context"
	"sync"
	"testing"
	"time"

	"flashdeck/internal/config"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []GenerateRequest
	Response *GenerateResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &GenerateResponse{
			Text:         "Term: definition",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")
	ctx := context.Background()

	req := GenerateRequest{
		Model:  "test-model",
		Prompt: "generate flashcards about rivers",
	}

	resp, err := mock.Generate(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Text != "Term: definition" {
		t.Errorf("unexpected response text: %q", resp.Text)
	}

	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}

	if mock.Calls[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls[0].Model)
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	providers := []string{"anthropic", "openai", "google"}
	for _, p := range providers {
		_, err := NewProvider(p, "some-model")
		if err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("unknown", "some-model")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestFactoryCreatesProviders(t *testing.T) {
	tests := []struct {
		envKey   string
		provider string
		model    string
	}{
		{"ANTHROPIC_API_KEY", "anthropic", "claude-sonnet-4-5-20250929"},
		{"OPENAI_API_KEY", "openai", "gpt-4o"},
		{"GOOGLE_API_KEY", "google", "gemini-2.0-flash"},
	}

	for _, tt := range tests {
		t.Setenv(tt.envKey, "test-key")
		provider, err := NewProvider(tt.provider, tt.model)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.provider, err)
		}
		if provider.Name() != tt.provider {
			t.Errorf("expected name %q, got %q", tt.provider, provider.Name())
		}
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	ctx := context.Background()
	resp, err := rl.Generate(ctx, GenerateRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Term: definition" {
		t.Errorf("unexpected response text: %q", resp.Text)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	// Allow only 2 requests per minute.
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// First two should succeed immediately.
	for i := 0; i < 2; i++ {
		_, err := rl.Generate(ctx, GenerateRequest{Prompt: "hello"})
		if err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	// Third should block and eventually fail due to context timeout.
	_, err := rl.Generate(ctx, GenerateRequest{Prompt: "hello"})
	if err == nil {
		t.Error("expected error due to rate limiting + context timeout")
	}
}

func TestEstimateCostKnownModels(t *testing.T) {
	tests := []struct {
		model        string
		inputTokens  int
		outputTokens int
	}{
		{"claude-sonnet-4-5-20250929", 1000, 500},
		{"gpt-4o", 1000, 500},
		{"gemini-2.0-flash", 1000, 500},
	}

	for _, tt := range tests {
		cost := EstimateCost(tt.model, tt.inputTokens, tt.outputTokens)
		if cost <= 0 {
			t.Errorf("EstimateCost(%q, %d, %d) = %f, expected > 0",
				tt.model, tt.inputTokens, tt.outputTokens, cost)
		}
	}
}

func TestEstimateCostCoversPresetModels(t *testing.T) {
	providers := []config.ProviderType{config.ProviderAnthropic, config.ProviderOpenAI, config.ProviderGoogle}
	tiers := []config.QualityTier{config.QualityLite, config.QualityNormal, config.QualityMax}

	// Every hosted model the quality presets can select must be priced,
	// or the CLI cost summary silently disappears.
	for _, p := range providers {
		for _, tier := range tiers {
			model := config.GetPreset(p, tier).Model
			if cost := EstimateCost(model, 1_000_000, 1_000_000); cost <= 0 {
				t.Errorf("preset model %q (%s/%s) has no pricing", model, p, tier)
			}
		}
	}
}

func TestEstimateCostUnknownModel(t *testing.T) {
	if cost := EstimateCost("unknown-model", 1000, 500); cost != 0 {
		t.Errorf("expected 0 for unknown model, got %f", cost)
	}
}
