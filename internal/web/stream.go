package web

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"flashdeck/internal/card"
	"flashdeck/internal/deck"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamEvent is the outgoing WebSocket message format. Type is "card"
// for a newly rendered flashcard or "status" for a lifecycle event.
type streamEvent struct {
	Type     string       `json:"type"`
	Card     *card.Card   `json:"card,omitempty"`
	Position int          `json:"position,omitempty"`
	Status   *deck.Status `json:"status,omitempty"`
}

// Broadcaster fans deck events out to every connected WebSocket client.
// It implements deck.CardSink.
type Broadcaster struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{conns: make(map[*websocket.Conn]bool)}
}

// Render broadcasts a newly committed card to all clients.
func (b *Broadcaster) Render(c card.Card, position int) {
	b.broadcast(streamEvent{Type: "card", Card: &c, Position: position})
}

// Status broadcasts a lifecycle event to all clients.
func (b *Broadcaster) Status(s deck.Status) {
	b.broadcast(streamEvent{Type: "status", Status: &s})
}

func (b *Broadcaster) broadcast(ev streamEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.conns {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("web: websocket write: %v", err)
			conn.Close()
			delete(b.conns, conn)
		}
	}
}

// attach replays the given cards to conn and then registers it, all under
// the broadcaster's lock. gorilla/websocket allows only one writer per
// connection, so the replay must not interleave with a broadcast and no
// broadcast may slip in between the replay and registration.
func (b *Broadcaster) attach(conn *websocket.Conn, replay []card.Card) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range replay {
		c := c
		if err := conn.WriteJSON(streamEvent{Type: "card", Card: &c, Position: c.Position}); err != nil {
			return err
		}
	}
	b.conns[conn] = true
	return nil
}

func (b *Broadcaster) remove(conn *websocket.Conn) {
	b.mu.Lock()
	delete(b.conns, conn)
	b.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}

// handleWebSocket upgrades the connection and keeps it registered until
// the client goes away. The read loop only drains control frames; all
// traffic flows server to client.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade: %v", err)
		return
	}
	// Replay the current deck so late joiners see the full session.
	if err := h.broadcaster.attach(conn, h.session.Cards()); err != nil {
		conn.Close()
		return
	}
	defer func() {
		h.broadcaster.remove(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("web: websocket read: %v", err)
			}
			return
		}
	}
}
