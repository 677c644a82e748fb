package notification

import (
	"context"
	"sync"
	"time"

	"servicebook/internal/domain"
	"servicebook/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

type ProfessionalReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
}

// client serializes writes; a websocket connection allows one writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// Hub keeps one live connection per user and pushes reservation events to
// the client and professional involved.
type Hub struct {
	connections   map[int64]*client
	mutex         sync.RWMutex
	professionals ProfessionalReader
	log           *zap.Logger
}

func NewHub(professionals ProfessionalReader, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		connections:   make(map[int64]*client),
		professionals: professionals,
		log:           log,
	}
}

// Register replaces any previous connection of the user.
func (h *Hub) Register(userID int64, conn *websocket.Conn) *client {
	c := &client{conn: conn}

	h.mutex.Lock()
	old := h.connections[userID]
	h.connections[userID] = c
	h.mutex.Unlock()

	if old != nil {
		_ = old.conn.Close()
	}
	return c
}

// Unregister drops the user's connection if it is still c.
func (h *Hub) Unregister(userID int64, c *client) {
	h.mutex.Lock()
	if cur, ok := h.connections[userID]; ok && cur == c {
		delete(h.connections, userID)
	}
	h.mutex.Unlock()

	_ = c.conn.Close()
}

func (h *Hub) SendToUser(userID int64, message any) bool {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists {
		return false
	}

	if err := c.writeJSON(message); err != nil {
		h.log.Debug("websocket write failed", zap.Int64("user_id", userID), zap.Error(err))
		h.Unregister(userID, c)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

// Publish implements events.Publisher. Offline users are skipped.
func (h *Hub) Publish(ctx context.Context, e events.Event) error {
	if e.UserID > 0 {
		h.SendToUser(e.UserID, e)
	}
	if e.ProfessionalID <= 0 || h.professionals == nil {
		return nil
	}

	p, err := h.professionals.GetByID(ctx, e.ProfessionalID)
	if err != nil {
		return err
	}
	if p.UserID != e.UserID {
		h.SendToUser(p.UserID, e)
	}
	return nil
}

func (h *Hub) Close() {
	h.mutex.Lock()
	conns := h.connections
	h.connections = make(map[int64]*client)
	h.mutex.Unlock()

	for _, c := range conns {
		_ = c.conn.Close()
	}
}
