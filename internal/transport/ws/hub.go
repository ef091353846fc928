package ws

import (
	"encoding/json"
	"sync"

	"neuroassess/internal/platform/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message types mirror the session notification kinds
const (
	MsgResponseRecorded MessageType = "response_recorded"
	MsgQuestionChanged  MessageType = "question_changed"
	MsgSessionCompleted MessageType = "session_completed"
	MsgSessionClosed    MessageType = "session_closed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection represents a WebSocket subscriber of one session
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID string
	Message   *Message
	Close     bool
}

// Hub fans session notifications out to WebSocket subscribers
type Hub struct {
	// session -> subscribers
	sessions map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	log        *logger.Logger
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		sessions:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[*Connection]bool)
			}
			h.sessions[conn.SessionID][conn] = true
			h.mu.Unlock()
			h.log.Debug("subscriber connected", "sessionId", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			if msg.Close {
				payload, _ := json.Marshal(map[string]string{"sessionId": msg.SessionID})
				closed, _ := json.Marshal(&Message{Type: MsgSessionClosed, Payload: payload})
				for conn := range h.sessions[msg.SessionID] {
					select {
					case conn.Send <- closed:
					default:
					}
					h.remove(conn)
				}
				h.mu.Unlock()
				continue
			}
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Warn("ws marshal failed", "sessionId", msg.SessionID, "error", err)
				h.mu.Unlock()
				continue
			}
			for conn := range h.sessions[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held
func (h *Hub) remove(conn *Connection) {
	subs, ok := h.sessions[conn.SessionID]
	if !ok || !subs[conn] {
		return
	}
	delete(subs, conn)
	close(conn.Send)
	if len(subs) == 0 {
		delete(h.sessions, conn.SessionID)
	}
	h.log.Debug("subscriber disconnected", "sessionId", conn.SessionID)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Subscribers returns the number of connections watching a session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// BroadcastToSession sends a message to every subscriber of a session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("ws payload marshal failed", "sessionId", sessionID, "error", err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession closes every subscriber of a session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.broadcast <- &BroadcastMessage{SessionID: sessionID, Close: true}
}
