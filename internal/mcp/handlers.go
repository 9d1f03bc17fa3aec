package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"flashdeck/internal/card"
	"flashdeck/internal/deck"
	"flashdeck/internal/history"
)

// handleGenerateDeck generates a fresh deck for the topic and, when a
// history store is configured, archives it.
func (s *Server) handleGenerateDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}

	count := request.GetInt("count", s.cardCount)
	svc := deck.NewService(s.provider, s.model, count, nil)

	cards, err := svc.Start(ctx, topic)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	var deckID string
	if s.store != nil {
		saved, err := s.store.Save(ctx, history.SavedDeck{
			Topic: svc.Topic(),
			Model: s.model,
			Cards: cards,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("deck generated but saving failed: %v", err)), nil
		}
		deckID = saved.ID
		if s.index != nil {
			// Indexing is best effort; the deck is already saved.
			_ = s.index.AddDeck(ctx, saved.ID, saved.Topic, cards)
		}
	}

	var sb strings.Builder
	if deckID != "" {
		sb.WriteString(fmt.Sprintf("Deck %s: %d cards for %q\n\n", deckID, len(cards), topic))
	} else {
		sb.WriteString(fmt.Sprintf("%d cards for %q (not persisted)\n\n", len(cards), topic))
	}
	sb.WriteString(formatCards(cards))
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListDecks lists saved decks.
func (s *Server) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("deck persistence is not configured"), nil
	}

	limit := request.GetInt("limit", 20)
	decks, err := s.store.List(ctx, history.ListFilter{
		Topic: request.GetString("topic", ""),
		Limit: limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing decks failed: %v", err)), nil
	}
	if len(decks) == 0 {
		return mcp.NewToolResultText("No saved decks found."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d deck(s):\n", len(decks)))
	for _, d := range decks {
		sb.WriteString(fmt.Sprintf("\n%s: %q, %d cards, created %s", d.ID, d.Topic, d.CardCount, d.CreatedAt.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetDeck returns a saved deck with its cards.
func (s *Server) handleGetDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("deck persistence is not configured"), nil
	}

	deckID, err := request.RequireString("deck_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: deck_id"), nil
	}

	d, err := s.store.GetByID(ctx, deckID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("getting deck failed: %v", err)), nil
	}
	if d == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no deck found with ID %q", deckID)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Deck %s: %q, %d cards\n\n", d.ID, d.Topic, len(d.Cards)))
	sb.WriteString(formatCards(d.Cards))
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSearchCards performs semantic search over indexed cards.
func (s *Server) handleSearchCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.index == nil {
		return mcp.NewToolResultError("card search is not configured"), nil
	}

	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	results, err := s.index.Search(ctx, query, limit, request.GetString("deck_id", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching cards found."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d card(s):\n", len(results)))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Deck: %s (%s)\n", r.Card.DeckID, r.Card.Topic))
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", r.Similarity*100))
		sb.WriteString(fmt.Sprintf("\n%s: %s\n", r.Card.Term, r.Card.Definition))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatCards renders cards in the canonical "Term: definition" format.
func formatCards(cards []card.Card) string {
	var sb strings.Builder
	for _, c := range cards {
		sb.WriteString(c.Term)
		sb.WriteString(": ")
		sb.WriteString(c.Definition)
		sb.WriteString("\n")
	}
	return sb.String()
}
