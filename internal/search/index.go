package search

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"flashdeck/internal/card"
	"flashdeck/internal/embeddings"
)

const collectionName = "cards"

// IndexedCard is one flashcard as stored in the semantic index.
type IndexedCard struct {
	DeckID     string `json:"deck_id"`
	Topic      string `json:"topic"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Position   int    `json:"position"`
}

// Result pairs an indexed card with its similarity score.
type Result struct {
	Card       IndexedCard `json:"card"`
	Similarity float32     `json:"similarity"`
}

// Index stores flashcards in a chromem-go collection for semantic search
// across saved decks.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewIndex creates a new in-memory card index.
func NewIndex(embedder embeddings.Embedder) (*Index, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

// AddDeck indexes all cards of a deck. Cards are embedded by their full
// "Term: definition" text so either side of the card can match a query.
func (ix *Index) AddDeck(ctx context.Context, deckID, topic string, cards []card.Card) error {
	if len(cards) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(cards))
	for i, c := range cards {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s/%d", deckID, c.Position),
			Content: c.Term + ": " + c.Definition,
			Metadata: map[string]string{
				"deck_id":  deckID,
				"topic":    topic,
				"term":     c.Term,
				"position": fmt.Sprintf("%d", c.Position),
			},
		}
	}

	return ix.collection.AddDocuments(ctx, docs, 1)
}

// Search performs a semantic search over all indexed cards. An empty
// deckID searches every deck.
func (ix *Index) Search(ctx context.Context, query string, limit int, deckID string) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	var where map[string]string
	if deckID != "" {
		where = map[string]string{"deck_id": deckID}
	}

	results, err := ix.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			Card:       documentToCard(r.ID, r.Content, r.Metadata),
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

// RemoveDeck deletes all indexed cards belonging to the deck.
func (ix *Index) RemoveDeck(ctx context.Context, deckID string) error {
	return ix.collection.Delete(ctx, map[string]string{"deck_id": deckID}, nil)
}

// Persist saves the index to the given directory.
func (ix *Index) Persist(ctx context.Context, dir string) error {
	return ix.db.ExportToFile(dir+"/cards.gob.gz", true, "")
}

// Load restores the index from the given directory.
func (ix *Index) Load(ctx context.Context, dir string) error {
	if err := ix.db.ImportFromFile(dir+"/cards.gob.gz", ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := ix.db.GetCollection(collectionName, ix.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	ix.collection = col
	return nil
}

// Count returns the total number of indexed cards.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

func documentToCard(id, content string, md map[string]string) IndexedCard {
	ic := IndexedCard{
		DeckID: md["deck_id"],
		Topic:  md["topic"],
		Term:   md["term"],
	}
	fmt.Sscanf(md["position"], "%d", &ic.Position)
	// Content is "Term: definition"; strip the term prefix back off.
	if prefix := ic.Term + ": "; len(content) > len(prefix) && content[:len(prefix)] == prefix {
		ic.Definition = content[len(prefix):]
	} else {
		ic.Definition = content
	}
	return ic
}
