package card

import "strings"

// Card is a single flashcard: a term and its definition.
// Two cards are considered the same card when their terms are equal
// under case-insensitive comparison; the definition never participates
// in identity.
type Card struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Position   int    `json:"position"`
}

// Key returns the deduplication key for the card's term.
func (c Card) Key() string {
	return TermKey(c.Term)
}

// TermKey normalizes a term for case-insensitive comparison.
func TermKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
