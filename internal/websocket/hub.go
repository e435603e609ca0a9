package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/vikasavnish/hunterbot/internal/models"
)

// writeWait bounds a single write to a client
const writeWait = 5 * time.Second

// Publisher delivers notifications to trade screens
type Publisher interface {
	Publish(msg models.Message)
}

// Hub maintains the set of active clients and routes messages to the
// clients watching the message's session
type Hub struct {
	mu sync.Mutex

	// Registered clients and the session each one watches
	connections map[*websocket.Conn]string

	// Messages waiting to be delivered
	broadcast chan models.Message

	// Upgrader for HTTP connections to WebSocket
	upgrader websocket.Upgrader

	writeWait time.Duration

	log zerolog.Logger
}

// NewHub creates a new hub for managing WebSocket connections
func NewHub(log zerolog.Logger) *Hub {
	upgrader := websocket.Upgrader{
		// Allow all origins for WebSocket connections
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return &Hub{
		connections: make(map[*websocket.Conn]string),
		broadcast:   make(chan models.Message, 64),
		upgrader:    upgrader,
		writeWait:   writeWait,
		log:         log,
	}
}

// Run delivers queued messages until ctx ends
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

// targets returns the clients a message goes to. Messages without a session
// go to everyone.
func (h *Hub) targets(msg models.Message) []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []*websocket.Conn
	for client, session := range h.connections {
		if msg.SessionID == "" || session == msg.SessionID {
			out = append(out, client)
		}
	}
	return out
}

// send is only called from Run, so each client has a single writer
func (h *Hub) send(msg models.Message) {
	for _, client := range h.targets(msg) {
		client.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := client.WriteJSON(msg); err != nil {
			h.log.Warn().Err(err).Msg("error sending message to client")
			h.remove(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.connections {
		client.Close()
		delete(h.connections, client)
	}
}

// HandleWebSocket upgrades an HTTP connection to WebSocket. The client
// receives the notifications of the session named by the session query
// parameter.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("error upgrading to websocket")
		return
	}

	h.mu.Lock()
	h.connections[ws] = session
	h.mu.Unlock()

	// Read messages from the client (to keep the connection alive)
	go func() {
		defer h.remove(ws)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[ws]; ok {
		delete(h.connections, ws)
		ws.Close()
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

// Broadcast queues a message for delivery. When the queue is full the
// message is dropped.
func (h *Hub) Broadcast(msg models.Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("type", msg.Type).Msg("broadcast queue full, dropping message")
	}
}

// Publish implements Publisher
func (h *Hub) Publish(msg models.Message) {
	h.Broadcast(msg)
}
