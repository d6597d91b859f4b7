package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shopcore/storefront-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub pushes order lifecycle events to connected dashboard clients. It
// implements order.Notifier.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool), log: log}
}

type orderEvent struct {
	Event string       `json:"event"`
	Order models.Order `json:"order"`
}

func (h *Hub) OrderCreated(o models.Order) {
	h.broadcast(orderEvent{Event: "order_created", Order: o})
}

func (h *Hub) OrderUpdated(o models.Order) {
	h.broadcast(orderEvent{Event: "order_updated", Order: o})
}

func (h *Hub) broadcast(ev orderEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal order event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// GET /orders/ws
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()

		// Reads are discarded; the loop exists to notice the client going away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}
}
