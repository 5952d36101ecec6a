package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pixelplaza/tradehall/internal/domain"
)

const clientSendBuffer = 32

// eventMessage is the JSON frame pushed to connected clients.
type eventMessage struct {
	Event        string   `json:"event"`
	Timestamp    string   `json:"timestamp"`
	CharacterIDs []string `json:"character_ids"`
	Data         any      `json:"data"`
}

// eventClient is one connected websocket consumer. A slow client whose
// buffer fills is dropped rather than allowed to stall the broadcast.
type eventClient struct {
	id   string
	conn *websocket.Conn
	send chan eventMessage
}

// EventHub broadcasts engine events to websocket clients. It is an
// EventSink; Publish never blocks on client I/O.
type EventHub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*eventClient
}

// NewEventHub creates an EventHub.
func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[string]*eventClient),
	}
}

// Publish fans an engine event out to every connected client.
func (h *EventHub) Publish(evt domain.Event) {
	msg := eventMessage{
		Event:        string(evt.Type),
		Timestamp:    formatTime(evt.At),
		CharacterIDs: evt.CharacterIDs,
		Data:         evt.Payload,
	}

	h.mu.RLock()
	var overflowed []*eventClient
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			overflowed = append(overflowed, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range overflowed {
		h.drop(c)
	}
}

// Serve handles GET /events: upgrades the connection and streams events
// until the client disconnects.
func (h *EventHub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &eventClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan eventMessage, clientSendBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Info("event feed client connected", slog.String("client_id", c.id))

	go h.writeLoop(c)
	h.readLoop(c)
}

// writeLoop pushes queued events to one client. It exits when the send
// channel closes.
func (h *EventHub) writeLoop(c *eventClient) {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			h.drop(c)
			return
		}
	}
}

// readLoop discards inbound frames and detects disconnects.
func (h *EventHub) readLoop(c *eventClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

// drop removes a client and closes its connection. Safe to call more
// than once per client.
func (h *EventHub) drop(c *eventClient) {
	h.mu.Lock()
	_, present := h.clients[c.id]
	if present {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	if present {
		c.conn.Close()
		h.logger.Info("event feed client disconnected", slog.String("client_id", c.id))
	}
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
