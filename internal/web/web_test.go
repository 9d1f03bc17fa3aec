package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"flashdeck/internal/card"
	"flashdeck/internal/db"
	"flashdeck/internal/deck"
	"flashdeck/internal/history"
	"flashdeck/internal/llm"
)

type stubProvider struct {
	text string
	err  error
}

func (p *stubProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.GenerateResponse{Text: p.text}, nil
}

func (p *stubProvider) Name() string { return "stub" }

func setupHandler(t *testing.T, provider *stubProvider) (*Handler, *chi.Mux, *history.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := history.NewStore(database)

	b := NewBroadcaster()
	session := deck.NewService(provider, "stub-model", 10, b)
	h := NewHandler(session, b, store, nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return h, r, store
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSnapshotEmptySession(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{text: "A: 1"})

	req := httptest.NewRequest("GET", "/api/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp sessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Cards) != 0 {
		t.Errorf("expected empty deck, got %d cards", len(resp.Cards))
	}
}

func TestStartSession(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{text: "Osmosis: diffusion of water\nMitosis: cell division"})

	w := postJSON(t, r, "/api/session/start", `{"topic":"cell biology"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp sessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Topic != "cell biology" {
		t.Errorf("expected topic echoed back, got %q", resp.Topic)
	}
	if len(resp.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(resp.Cards))
	}
	if resp.Cards[0].Term != "Osmosis" || resp.Cards[0].Position != 0 {
		t.Errorf("unexpected first card: %+v", resp.Cards[0])
	}
}

func TestStartEmptyTopic(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{text: "A: 1"})

	w := postJSON(t, r, "/api/session/start", `{"topic":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStartNoParsableCards(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{text: "no colons in this response"})

	w := postJSON(t, r, "/api/session/start", `{"topic":"cell biology"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestStartProviderFailure(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{err: errors.New("upstream down")})

	w := postJSON(t, r, "/api/session/start", `{"topic":"cell biology"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] == "" {
		t.Error("expected error message in body")
	}
}

func TestExtendWithoutDeck(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{text: "A: 1"})

	w := postJSON(t, r, "/api/session/extend", `{"topic":"cell biology"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExtendReturnsOnlyNewCards(t *testing.T) {
	provider := &stubProvider{text: "Osmosis: diffusion of water"}
	_, r, _ := setupHandler(t, provider)

	if w := postJSON(t, r, "/api/session/start", `{"topic":"cell biology"}`); w.Code != http.StatusOK {
		t.Fatalf("start failed: %d", w.Code)
	}

	provider.text = "osmosis: repeated\nMeiosis: gamete production"
	w := postJSON(t, r, "/api/session/extend", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp sessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Cards) != 1 || resp.Cards[0].Term != "Meiosis" {
		t.Errorf("expected only the new card, got %+v", resp.Cards)
	}
	if resp.Cards[0].Position != 1 {
		t.Errorf("expected position 1, got %d", resp.Cards[0].Position)
	}
}

func TestSaveDeck(t *testing.T) {
	_, r, store := setupHandler(t, &stubProvider{text: "Osmosis: diffusion of water"})

	if w := postJSON(t, r, "/api/session/start", `{"topic":"cell biology"}`); w.Code != http.StatusOK {
		t.Fatalf("start failed: %d", w.Code)
	}

	w := postJSON(t, r, "/api/session/save", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	saved, err := store.GetByID(context.Background(), body["id"])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if saved == nil || saved.Topic != "cell biology" || len(saved.Cards) != 1 {
		t.Errorf("unexpected saved deck: %+v", saved)
	}
}

func TestSaveEmptyDeck(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{text: "A: 1"})

	w := postJSON(t, r, "/api/session/save", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestServeIndex(t *testing.T) {
	_, r, _ := setupHandler(t, &stubProvider{text: "A: 1"})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "flashdeck") {
		t.Error("expected page body to mention flashdeck")
	}
}

func TestBroadcasterTracksClients(t *testing.T) {
	b := NewBroadcaster()
	if b.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", b.ClientCount())
	}
	// Render and Status on an empty broadcaster must not panic.
	b.Render(card.Card{Term: "A", Definition: "1"}, 0)
	b.Status(deck.Status{Kind: deck.StatusDone})
}
