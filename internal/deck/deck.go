package deck

import (
	"flashdeck/internal/card"
)

// Deck is an ordered set of flashcards with unique terms. Insertion order
// is preserved and positions are assigned sequentially; no two cards ever
// share a case-insensitively equal term. Deck is not safe for concurrent
// use; the Service serializes access.
type Deck struct {
	cards []card.Card
	keys  map[string]bool
}

// New returns an empty deck.
func New() *Deck {
	return &Deck{keys: make(map[string]bool)}
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the deck's cards in position order.
func (d *Deck) Cards() []card.Card {
	out := make([]card.Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Terms returns the deck's terms in position order.
func (d *Deck) Terms() []string {
	terms := make([]string, len(d.cards))
	for i, c := range d.cards {
		terms[i] = c.Term
	}
	return terms
}

// Has reports whether the deck already contains the term, case-insensitively.
func (d *Deck) Has(term string) bool {
	return d.keys[card.TermKey(term)]
}

// Add appends a card to the end of the deck, assigning it the next position.
// It returns false without modifying the deck when the card's term is
// already present under case-insensitive comparison.
func (d *Deck) Add(c card.Card) bool {
	key := c.Key()
	if d.keys[key] {
		return false
	}
	c.Position = len(d.cards)
	d.cards = append(d.cards, c)
	d.keys[key] = true
	return true
}

// Clear removes all cards, resetting positions to start from zero.
func (d *Deck) Clear() {
	d.cards = nil
	d.keys = make(map[string]bool)
}
