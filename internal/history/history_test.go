package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"flashdeck/internal/card"
	"flashdeck/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func sampleDeck(topic string) SavedDeck {
	return SavedDeck{
		Topic:    topic,
		Provider: "anthropic",
		Model:    "claude-sonnet-4-5-20250929",
		Cards: []card.Card{
			{Term: "Osmosis", Definition: "diffusion of water across a membrane", Position: 0},
			{Term: "Mitosis", Definition: "cell division producing identical cells", Position: 1},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Save(ctx, sampleDeck("cell biology"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if created.ID == "" {
		t.Error("expected non-empty ID")
	}
	if created.CardCount != 2 {
		t.Errorf("expected card_count 2, got %d", created.CardCount)
	}

	fetched, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Topic != "cell biology" {
		t.Errorf("expected topic %q, got %q", "cell biology", fetched.Topic)
	}
	if len(fetched.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(fetched.Cards))
	}
	if fetched.Cards[0].Term != "Osmosis" || fetched.Cards[1].Term != "Mitosis" {
		t.Errorf("cards out of order: %+v", fetched.Cards)
	}
}

func TestSaveReplacesCards(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Save(ctx, sampleDeck("cell biology"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated := *created
	updated.Cards = append(updated.Cards, card.Card{Term: "Meiosis", Definition: "cell division producing gametes", Position: 2})
	if _, err := store.Save(ctx, updated); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	fetched, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(fetched.Cards) != 3 {
		t.Errorf("expected 3 cards after resave, got %d", len(fetched.Cards))
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("expected a single deck row, got %d", count)
	}
}

func TestGetMissingDeck(t *testing.T) {
	store := setupTestStore(t)

	d, err := store.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil for missing deck, got %+v", d)
	}
}

func TestListWithFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Save(ctx, sampleDeck("cell biology"))
	store.Save(ctx, sampleDeck("french revolution"))
	store.Save(ctx, sampleDeck("marine biology"))

	all, _ := store.List(ctx, ListFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 decks, got %d", len(all))
	}
	if len(all[0].Cards) != 0 {
		t.Error("List should not hydrate cards")
	}

	bio, _ := store.List(ctx, ListFilter{Topic: "biology"})
	if len(bio) != 2 {
		t.Errorf("expected 2 biology decks, got %d", len(bio))
	}

	limited, _ := store.List(ctx, ListFilter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1 deck with limit, got %d", len(limited))
	}
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Save(ctx, sampleDeck("cell biology"))
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	d, _ := store.GetByID(ctx, created.ID)
	if d != nil {
		t.Error("expected deck gone after delete")
	}

	if err := store.Delete(ctx, created.ID); err == nil {
		t.Error("expected error deleting missing deck")
	}
}

func TestGenerationLog(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Save(ctx, sampleDeck("cell biology"))

	_, err := store.LogGeneration(ctx, GenerationRecord{
		DeckID:       created.ID,
		Operation:    "start",
		Model:        "claude-sonnet-4-5-20250929",
		InputTokens:  120,
		OutputTokens: 450,
		CostUSD:      0.0071,
		CardsAdded:   10,
	})
	if err != nil {
		t.Fatalf("LogGeneration: %v", err)
	}
	store.LogGeneration(ctx, GenerationRecord{
		DeckID: created.ID, Operation: "extend", CostUSD: 0.003, CardsAdded: 5,
	})

	records, err := store.Generations(ctx, created.ID)
	if err != nil {
		t.Fatalf("Generations: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Operation != "start" {
		t.Errorf("expected start first, got %q", records[0].Operation)
	}

	total, err := store.TotalCost(ctx)
	if err != nil {
		t.Fatalf("TotalCost: %v", err)
	}
	if total < 0.0100 || total > 0.0102 {
		t.Errorf("unexpected total cost: %f", total)
	}
}

func setupTestRouter(t *testing.T) (*Store, *chi.Mux) {
	t.Helper()
	store := setupTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return store, r
}

func TestHandleList(t *testing.T) {
	store, r := setupTestRouter(t)
	store.Save(context.Background(), sampleDeck("cell biology"))

	req := httptest.NewRequest("GET", "/api/history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var decks []SavedDeck
	if err := json.NewDecoder(w.Body).Decode(&decks); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(decks) != 1 {
		t.Errorf("expected 1 deck, got %d", len(decks))
	}
}

func TestHandleGetByID(t *testing.T) {
	store, r := setupTestRouter(t)
	created, _ := store.Save(context.Background(), sampleDeck("cell biology"))

	req := httptest.NewRequest("GET", "/api/history/"+created.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var d SavedDeck
	if err := json.NewDecoder(w.Body).Decode(&d); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(d.Cards) != 2 {
		t.Errorf("expected 2 cards, got %d", len(d.Cards))
	}
}

func TestHandleGetMissing(t *testing.T) {
	_, r := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/history/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	store, r := setupTestRouter(t)
	created, _ := store.Save(context.Background(), sampleDeck("cell biology"))

	req := httptest.NewRequest("DELETE", "/api/history/"+created.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	d, _ := store.GetByID(context.Background(), created.ID)
	if d != nil {
		t.Error("expected deck gone after delete")
	}
}

func TestWriteErrorEncodesMessage(t *testing.T) {
	// Error messages can carry IDs and provider text; a quote in the
	// message must not break the JSON body.
	w := httptest.NewRecorder()
	writeError(w, http.StatusNotFound, `deck not found: no"pe`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	if body["error"] != `deck not found: no"pe` {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestHandleStats(t *testing.T) {
	store, r := setupTestRouter(t)
	store.Save(context.Background(), sampleDeck("cell biology"))

	req := httptest.NewRequest("GET", "/api/history/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats map[string]float64
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if stats["deck_count"] != 1 {
		t.Errorf("expected deck_count 1, got %v", stats["deck_count"])
	}
}
