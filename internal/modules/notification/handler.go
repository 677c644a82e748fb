package notification

import (
	"net/http"
	"time"

	"servicebook/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts websocket upgrades from the given origins. An empty list
// or "*" allows any origin.
func NewHandler(hub *Hub, origins []string) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/ws", h.Connect)
}

// Connect upgrades an authenticated request and holds the connection until
// the client goes away. Inbound messages are ignored.
// @Summary		Open the notification websocket
// @Tags		Notifications
// @Security	BearerAuth
// @Param		token	query	string	false	"JWT when no Authorization header is sent"
// @Success		101	{object}	map[string]interface{}	"Switching protocols"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Router		/ws [GET]
func (h *Handler) Connect(c *gin.Context) {
	userID := middleware.CurrentActor(c).UserID

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	cl := h.hub.Register(userID, conn)
	h.hub.log.Info("websocket connected", zap.Int64("user_id", userID))
	defer func() {
		h.hub.Unregister(userID, cl)
		h.hub.log.Info("websocket disconnected", zap.Int64("user_id", userID))
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(cl, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.hub.log.Debug("websocket read failed", zap.Int64("user_id", userID), zap.Error(err))
			}
			return
		}
	}
}

func pingLoop(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cl.ping(); err != nil {
				return
			}
		}
	}
}
