package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/metrics"
)

// ErrBufferFull is returned when a connection's send buffer is full.
var ErrBufferFull = errors.New("send buffer full")

const sendBufferSize = 256

// Connection is one WebSocket client. Outbound messages go through the
// Send channel; WriteMessage serializes the raw socket writes.
type Connection struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	mu sync.Mutex
}

// Hub tracks live connections and the sessions they belong to. A session
// may span several connections; messages addressed to a session fan out to
// all of them.
type Hub struct {
	connections map[string]*Connection
	sessions    map[string]map[string]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *sessionMessage

	// SessionClosed, when set, fires after a session loses its last
	// connection. Must be assigned before Run starts.
	SessionClosed func(sessionID string)

	mu sync.RWMutex
}

type sessionMessage struct {
	sessionID string
	data      []byte
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		sessions:    make(map[string]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *sessionMessage, sendBufferSize),
	}
}

// Run owns the connection tables. It never returns; the hub lives for the
// whole process.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			if conn.SessionID != "" {
				h.addToSession(conn.SessionID, conn.ID)
			}
			h.mu.Unlock()
			metrics.WSConnections.Inc()
			log.Debug().Str("conn_id", conn.ID).Msg("connection registered")

		case conn := <-h.unregister:
			var closed string
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				closed = h.removeFromSession(conn.SessionID, conn.ID)
				close(conn.Send)
				metrics.WSConnections.Dec()
			}
			h.mu.Unlock()
			if closed != "" && h.SessionClosed != nil {
				h.SessionClosed(closed)
			}
			log.Debug().Str("conn_id", conn.ID).Msg("connection unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for connID := range h.sessions[msg.sessionID] {
				conn, ok := h.connections[connID]
				if !ok {
					continue
				}
				select {
				case conn.Send <- msg.data:
				default:
					// Slow client: drop it rather than stall the hub.
					log.Warn().Str("conn_id", connID).Msg("send buffer full, closing connection")
					go h.Unregister(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// addToSession must be called with h.mu held.
func (h *Hub) addToSession(sessionID, connID string) {
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[string]bool)
	}
	h.sessions[sessionID][connID] = true
}

// removeFromSession must be called with h.mu held. It reports the session
// ID when the removal emptied the session.
func (h *Hub) removeFromSession(sessionID, connID string) string {
	if sessionID == "" || h.sessions[sessionID] == nil {
		return ""
	}
	delete(h.sessions[sessionID], connID)
	if len(h.sessions[sessionID]) == 0 {
		delete(h.sessions, sessionID)
		return sessionID
	}
	return ""
}

// NewConnection wraps an upgraded socket. The connection is inert until
// Register.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, sendBufferSize),
	}
}

func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BindSession moves a connection into a session, unbinding any previous
// one.
func (h *Hub) BindSession(conn *Connection, sessionID string) {
	h.mu.Lock()
	closed := h.removeFromSession(conn.SessionID, conn.ID)
	conn.SessionID = sessionID
	h.addToSession(sessionID, conn.ID)
	h.mu.Unlock()
	if closed != "" && h.SessionClosed != nil {
		h.SessionClosed(closed)
	}
}

// Broadcast sends raw data to every connection in a session.
func (h *Hub) Broadcast(sessionID string, data []byte) {
	h.broadcast <- &sessionMessage{sessionID: sessionID, data: data}
}

// BroadcastJSON sends a JSON message to every connection in a session.
func (h *Hub) BroadcastJSON(sessionID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(sessionID, data)
	return nil
}

// SendToConnection queues data for one connection without blocking.
func (h *Hub) SendToConnection(conn *Connection, data []byte) error {
	select {
	case conn.Send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// SendJSONToConnection queues a JSON message for one connection.
func (h *Hub) SendJSONToConnection(conn *Connection, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.SendToConnection(conn, data)
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown asks every client to disconnect. The hub keeps serving
// unregisters while the sockets drain.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.connections))
	for _, conn := range h.connections {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
	}
}

// WriteMessage writes one frame, serialized against concurrent writers.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

func (c *Connection) Close() error {
	return c.Conn.Close()
}
