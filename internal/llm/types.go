package llm

// GenerateRequest contains the parameters for a single-turn generation request.
// Flashcard generation is always one prompt in, one text blob out; there is
// no conversation history.
type GenerateRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// GenerateResponse contains the result of a generation request.
type GenerateResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
