package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flashdeck/internal/card"
	"flashdeck/internal/db"
)

// Store manages persistence of saved decks and generation records.
type Store struct {
	db *db.DB
}

// NewStore creates a new history store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save archives a deck and its cards. An existing deck with the same ID
// has its cards replaced wholesale.
func (s *Store) Save(ctx context.Context, d SavedDeck) (*SavedDeck, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	d.CardCount = len(d.Cards)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO decks (id, topic, provider, model, card_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET topic = excluded.topic, provider = excluded.provider,
		   model = excluded.model, card_count = excluded.card_count, updated_at = excluded.updated_at`,
		d.ID, d.Topic, d.Provider, d.Model, d.CardCount, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting deck: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, d.ID); err != nil {
		return nil, fmt.Errorf("clearing old cards: %w", err)
	}
	for _, c := range d.Cards {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cards (deck_id, position, term, definition) VALUES (?, ?, ?, ?)`,
			d.ID, c.Position, c.Term, c.Definition,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting card %q: %w", c.Term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing deck: %w", err)
	}
	return &d, nil
}

// GetByID retrieves a saved deck with its cards in position order.
// Returns nil when no deck exists with the ID.
func (s *Store) GetByID(ctx context.Context, id string) (*SavedDeck, error) {
	var d SavedDeck
	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, provider, model, card_count, created_at, updated_at
		 FROM decks WHERE id = ?`, id,
	).Scan(&d.ID, &d.Topic, &d.Provider, &d.Model, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting deck: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, term, definition FROM cards WHERE deck_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c card.Card
		if err := rows.Scan(&c.Position, &c.Term, &c.Definition); err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		d.Cards = append(d.Cards, c)
	}
	return &d, rows.Err()
}

// List returns saved decks matching the filter, newest first, without cards.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]SavedDeck, error) {
	query := `SELECT id, topic, provider, model, card_count, created_at, updated_at
		 FROM decks WHERE 1=1`
	args := []interface{}{}

	if filter.Topic != "" {
		query += " AND topic LIKE ?"
		args = append(args, "%"+filter.Topic+"%")
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	defer rows.Close()

	var decks []SavedDeck
	for rows.Next() {
		var d SavedDeck
		if err := rows.Scan(&d.ID, &d.Topic, &d.Provider, &d.Model, &d.CardCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning deck: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// Delete removes a saved deck and its cards.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting deck: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("deck not found: %s", id)
	}
	return nil
}

// Count returns the number of saved decks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks`).Scan(&count)
	return count, err
}

// LogGeneration records one provider call against a deck.
func (s *Store) LogGeneration(ctx context.Context, rec GenerationRecord) (*GenerationRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_log (id, deck_id, operation, model, input_tokens, output_tokens, cost_usd, cards_added, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DeckID, rec.Operation, rec.Model, rec.InputTokens, rec.OutputTokens, rec.CostUSD, rec.CardsAdded, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting generation record: %w", err)
	}
	return &rec, nil
}

// Generations returns the generation records for a deck, oldest first.
func (s *Store) Generations(ctx context.Context, deckID string) ([]GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, deck_id, operation, model, input_tokens, output_tokens, cost_usd, cards_added, created_at
		 FROM generation_log WHERE deck_id = ? ORDER BY created_at ASC`, deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing generation records: %w", err)
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		if err := rows.Scan(&rec.ID, &rec.DeckID, &rec.Operation, &rec.Model, &rec.InputTokens, &rec.OutputTokens, &rec.CostUSD, &rec.CardsAdded, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning generation record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TotalCost returns the summed cost of all generation calls.
func (s *Store) TotalCost(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost_usd), 0) FROM generation_log`,
	).Scan(&total)
	return total, err
}
