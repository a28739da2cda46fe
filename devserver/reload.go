package devserver

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gekko3d/glint"
)

// reloadHub tracks live-reload websocket clients and broadcasts to all
// of them. Browsers reconnect after reloading the page.
type reloadHub struct {
	log      glint.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func newReloadHub(log glint.Logger) *reloadHub {
	return &reloadHub{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
}

func (h *reloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("Reload upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	h.log.Debugf("Reload client connected: %s", id)

	go h.readLoop(id, conn)
}

// readLoop drains incoming frames so pings are answered and the close
// handshake is observed.
func (h *reloadHub) readLoop(id string, conn *websocket.Conn) {
	defer h.drop(id)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *reloadHub) drop(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.clients[id]; ok {
		conn.Close()
		delete(h.clients, id)
		h.log.Debugf("Reload client disconnected: %s", id)
	}
}

func (h *reloadHub) Broadcast(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			conn.Close()
			delete(h.clients, id)
			h.log.Debugf("Reload client dropped: %s", id)
		}
	}
}

func (h *reloadHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
