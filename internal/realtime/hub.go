package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/middleware"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatusEvent is pushed to a customer when their order changes state.
type StatusEvent struct {
	Type    string            `json:"type"`
	OrderID uint              `json:"order_id"`
	Status  model.OrderStatus `json:"status"`
}

// Hub tracks open websocket connections per user and fans order status
// changes out to them. A user may hold several connections (multiple tabs).
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: map[uint]map[*websocket.Conn]struct{}{},
	}
}

func (h *Hub) register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = map[*websocket.Conn]struct{}{}
	}
	h.conns[userID][conn] = struct{}{}
}

func (h *Hub) unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	conn.Close()
}

// NotifyOrderStatus sends the event to every connection the user holds.
// Dead connections are dropped on write failure.
func (h *Hub) NotifyOrderStatus(userID uint, orderID uint, status model.OrderStatus) {
	event := StatusEvent{
		Type:    "order_status",
		OrderID: orderID,
		Status:  status,
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			logger.Debug("Dropping dead websocket connection", map[string]interface{}{
				"user_id": userID,
			})
			h.unregister(userID, conn)
		}
	}
}

// HandleConnection upgrades the request and keeps the connection
// registered until the client goes away.
func (h *Hub) HandleConnection(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	h.register(userID, conn)
	logger.Debug("Websocket connected", map[string]interface{}{
		"user_id": userID,
	})

	// Drain reads until the peer closes; we only ever push.
	go func() {
		defer h.unregister(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
