package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Feed pushes order lifecycle updates to connected admin dashboards.
type Feed struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

func NewFeed() *Feed {
	return &Feed{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GET /admin/orders/ws
func (f *Feed) Handler(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			f.mu.Lock()
			delete(f.clients, conn)
			f.mu.Unlock()
			break
		}
	}
}

// Broadcast sends v as JSON to every connected client. Writes that fail
// drop the client on its next read.
func (f *Feed) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for client := range f.clients {
		client.WriteMessage(websocket.TextMessage, data)
	}
}
