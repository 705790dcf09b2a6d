package orderControllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/aarohi-jewels/storefront-api/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans the live order feed out to connected admin panels. It holds one
// store subscription for all clients and tears it down when the last client
// leaves.
type Hub struct {
	store store.Store

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	sub     *store.Subscription
	last    []byte
}

func NewHub(st store.Store) *Hub {
	return &Hub{store: st, clients: make(map[*websocket.Conn]bool)}
}

// Handler upgrades the connection and streams order-collection snapshots.
// GET /orders/ws
func (h *Hub) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := h.add(conn); err != nil {
		log.Printf("❌ Order feed subscription failed: %v", err)
		return
	}
	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) error {
	if err := h.ensureSubscription(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	if h.last != nil {
		_ = conn.WriteMessage(websocket.TextMessage, h.last)
	}
	return nil
}

// ensureSubscription creates the shared store subscription if none is live.
// Subscribe must run outside the lock: the store may deliver the current
// record set synchronously through broadcast, which locks h.mu itself.
func (h *Hub) ensureSubscription() error {
	h.mu.Lock()
	if h.sub != nil {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	sub, err := h.store.Subscribe(context.Background(), store.CollectionOrders, "-createdAt", h.broadcast)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.sub == nil {
		h.sub = sub
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	// Another client raced us to it; one subscription is enough.
	sub.Cancel()
	return nil
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, conn)
	if len(h.clients) == 0 && h.sub != nil {
		h.sub.Cancel()
		h.sub = nil
	}
}

func (h *Hub) broadcast(records []store.Record) {
	docs := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		doc := r.Data
		doc["docKey"] = r.Key
		docs = append(docs, doc)
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.last = data
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, client)
		}
	}
	h.mu.Unlock()
}
