package history

import (
	"time"

	"flashdeck/internal/card"
)

// SavedDeck is a deck archived after a study session, with its cards.
type SavedDeck struct {
	ID        string      `json:"id"`
	Topic     string      `json:"topic"`
	Provider  string      `json:"provider"`
	Model     string      `json:"model"`
	CardCount int         `json:"card_count"`
	Cards     []card.Card `json:"cards,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// GenerationRecord is one provider call logged against a deck.
type GenerationRecord struct {
	ID           string    `json:"id"`
	DeckID       string    `json:"deck_id"`
	Operation    string    `json:"operation"` // "start" or "extend"
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	CardsAdded   int       `json:"cards_added"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListFilter controls which saved decks to return.
type ListFilter struct {
	Topic  string
	Limit  int
	Offset int
}
