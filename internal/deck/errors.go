package deck

import "errors"

// Sentinel errors for the two locally-detected failure modes. Both are
// terminal at the operation boundary: the caller surfaces the message and
// the user retries manually.
var (
	// ErrValidation is returned when required user input is missing
	// (empty topic, or an extend attempted on an empty deck). Detected
	// before any provider call is made.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyResult is returned when the provider call succeeded but
	// parsing yielded no usable (or no new unique) cards.
	ErrEmptyResult = errors.New("no usable cards in response")
)

// GenerationError wraps a failure from the generation provider. The message
// is derived from the underlying error when available, otherwise a generic
// fallback is used.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// newGenerationError builds a GenerationError with a human-readable message.
func newGenerationError(err error) *GenerationError {
	msg := "card generation failed, please try again"
	if err != nil && err.Error() != "" {
		msg = "card generation failed: " + err.Error()
	}
	return &GenerationError{Message: msg, Err: err}
}
