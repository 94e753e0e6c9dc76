package alerts

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Hub pushes alert update events to a user's open views over WebSocket,
// replacing the browser-side storage/custom-event propagation. Delivery is
// best-effort freshness, not a consistency guarantee.
type Hub struct {
	connections map[string]map[string]*connection
	mu          sync.RWMutex
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

type connection struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan UpdateEvent
}

// NewHub creates a new alert update hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string]map[string]*connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades the request and registers the view under its
// user until the socket closes.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan UpdateEvent, 16),
	}

	h.mu.Lock()
	if h.connections[userID] == nil {
		h.connections[userID] = make(map[string]*connection)
	}
	h.connections[userID][c.id] = c
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)

	return nil
}

// Broadcast delivers an update event to every open view of the user. Slow
// consumers are skipped rather than blocking the caller.
func (h *Hub) Broadcast(userID string, event UpdateEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.connections[userID] {
		select {
		case c.send <- event:
		default:
			h.logger.Warn("Dropping alert update for slow subscriber",
				zap.String("user_id", userID),
				zap.String("connection_id", c.id))
		}
	}
}

// SubscriberCount returns the number of open views for a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	if conns, ok := h.connections[c.userID]; ok {
		delete(conns, c.id)
		if len(conns) == 0 {
			delete(h.connections, c.userID)
		}
	}
	h.mu.Unlock()

	c.conn.Close()
}

func (h *Hub) readPump(c *connection) {
	defer h.unregister(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("Alert subscriber closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
