package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flashdeck/internal/card"
	"flashdeck/internal/deck"
	"flashdeck/internal/history"
	"flashdeck/internal/search"
)

// Handler provides the study session UI and API.
type Handler struct {
	session     *deck.Service
	broadcaster *Broadcaster
	store       *history.Store // optional; enables saving decks
	index       *search.Index  // optional; saved decks become searchable
}

// NewHandler creates a web handler. store and index may be nil, which
// disables deck saving.
func NewHandler(session *deck.Service, broadcaster *Broadcaster, store *history.Store, index *search.Index) *Handler {
	return &Handler{
		session:     session,
		broadcaster: broadcaster,
		store:       store,
		index:       index,
	}
}

// RegisterRoutes mounts the study session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.serveIndex)
	r.Get("/ws/session", h.handleWebSocket)
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", h.handleSnapshot)
		r.Post("/start", h.handleStart)
		r.Post("/extend", h.handleExtend)
		r.Post("/save", h.handleSave)
	})
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type sessionResponse struct {
	Topic string      `json:"topic"`
	Cards []card.Card `json:"cards"`
}

// handleSnapshot returns the current session deck.
func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{
		Topic: h.session.Topic(),
		Cards: cardsOrEmpty(h.session.Cards()),
	})
}

// handleStart generates a fresh deck for the requested topic.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cards, err := h.session.Start(r.Context(), req.Topic)
	if err != nil {
		writeDeckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Topic: h.session.Topic(), Cards: cards})
}

// handleExtend appends more cards to the current deck.
func (h *Handler) handleExtend(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		req.Topic = h.session.Topic()
	}

	added, err := h.session.Extend(r.Context(), req.Topic)
	if err != nil {
		writeDeckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Topic: h.session.Topic(), Cards: added})
}

// handleSave archives the current deck and indexes it for search.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "deck saving is not enabled")
		return
	}
	cards := h.session.Cards()
	if len(cards) == 0 {
		writeError(w, http.StatusBadRequest, "nothing to save, generate a deck first")
		return
	}

	saved, err := h.store.Save(r.Context(), history.SavedDeck{
		Topic: h.session.Topic(),
		Cards: cards,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.index != nil {
		if err := h.index.AddDeck(r.Context(), saved.ID, saved.Topic, cards); err != nil {
			// The deck is already persisted; indexing is best effort.
			writeJSON(w, http.StatusOK, map[string]string{"id": saved.ID, "warning": "deck saved but not indexed: " + err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": saved.ID})
}

// writeDeckError maps the session error taxonomy onto HTTP statuses.
func writeDeckError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deck.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, deck.ErrEmptyResult):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func cardsOrEmpty(cards []card.Card) []card.Card {
	if cards == nil {
		return []card.Card{}
	}
	return cards
}
