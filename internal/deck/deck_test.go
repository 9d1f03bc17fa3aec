package deck

import (
	"testing"

	"flashdeck/internal/card"
)

func TestDeckAddAssignsPositions(t *testing.T) {
	d := New()
	d.Add(card.Card{Term: "A", Definition: "1"})
	d.Add(card.Card{Term: "B", Definition: "2"})

	cards := d.Cards()
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Position != 0 || cards[1].Position != 1 {
		t.Errorf("unexpected positions: %d, %d", cards[0].Position, cards[1].Position)
	}
}

func TestDeckAddRejectsCaseInsensitiveDuplicates(t *testing.T) {
	d := New()
	if !d.Add(card.Card{Term: "Paris", Definition: "capital of France"}) {
		t.Fatal("first add should succeed")
	}
	if d.Add(card.Card{Term: "paris", Definition: "a city in Texas"}) {
		t.Error("duplicate term should be rejected")
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 card, got %d", d.Len())
	}
}

func TestDeckHas(t *testing.T) {
	d := New()
	d.Add(card.Card{Term: "Osmosis", Definition: "diffusion of water"})
	if !d.Has("OSMOSIS") {
		t.Error("Has should match case-insensitively")
	}
	if d.Has("Diffusion") {
		t.Error("Has should not match absent terms")
	}
}

func TestDeckClearResetsPositions(t *testing.T) {
	d := New()
	d.Add(card.Card{Term: "A", Definition: "1"})
	d.Clear()
	if d.Len() != 0 {
		t.Fatalf("expected empty deck, got %d cards", d.Len())
	}
	d.Add(card.Card{Term: "B", Definition: "2"})
	if got := d.Cards()[0].Position; got != 0 {
		t.Errorf("expected position 0 after clear, got %d", got)
	}
}

func TestDeckCardsReturnsCopy(t *testing.T) {
	d := New()
	d.Add(card.Card{Term: "A", Definition: "1"})
	cards := d.Cards()
	cards[0].Term = "mutated"
	if d.Cards()[0].Term != "A" {
		t.Error("Cards should return a copy, not the backing slice")
	}
}

func TestDeckTerms(t *testing.T) {
	d := New()
	d.Add(card.Card{Term: "A", Definition: "1"})
	d.Add(card.Card{Term: "B", Definition: "2"})
	terms := d.Terms()
	if len(terms) != 2 || terms[0] != "A" || terms[1] != "B" {
		t.Errorf("unexpected terms: %v", terms)
	}
}
