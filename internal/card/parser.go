package card

import "strings"

// ParseCards converts raw model output into an ordered list of cards.
//
// The expected wire format is one "Term: definition" pair per line. Only
// the first colon on a line delimits term from definition; any further
// colons stay verbatim in the definition. A line yields a card only when
// both the trimmed term and the trimmed definition are non-empty. Lines
// that fail either condition are dropped silently.
//
// No deduplication happens here; that is the deck's responsibility.
func ParseCards(raw string) []Card {
	var cards []Card
	for _, line := range strings.Split(raw, "\n") {
		term, definition, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		term = strings.TrimSpace(term)
		definition = strings.TrimSpace(definition)
		if term == "" || definition == "" {
			continue
		}
		cards = append(cards, Card{Term: term, Definition: definition})
	}
	return cards
}
