package server

import (
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/gorgon-dev/gorgon/log"
)

const reloadMessage = `{"type":"reload"}`

// ReloadScript is injected into every served HTML document; browsers
// reload when the hub broadcasts after a rebuild.
const ReloadScript = `<script>
(function() {
  var ws = new WebSocket('ws://' + location.host + '/livereload');
  ws.onmessage = function(ev) {
    try {
      if (JSON.parse(ev.data).type === 'reload') location.reload();
    } catch (e) {}
  };
})();
</script>`

// clientConn is the slice of a websocket the hub needs; tests swap in
// recording fakes.
type clientConn interface {
	Send(msg []byte) error
	Close() error
}

type wsClient struct {
	conn *websocket.Conn
}

func (c *wsClient) Send(msg []byte) error { return websocket.Message.Send(c.conn, string(msg)) }
func (c *wsClient) Close() error          { return c.conn.Close() }

// Hub tracks connected livereload clients and broadcasts reloads.
type Hub struct {
	mu      sync.Mutex
	clients map[clientConn]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[clientConn]struct{})}
}

// Handler returns the websocket endpoint. Connections block until the
// client goes away or the hub shuts down.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		c := &wsClient{conn: conn}
		if !h.add(c) {
			_ = conn.Close()
			return
		}
		defer h.remove(c)

		// Drain until the client disconnects; we never expect input.
		for {
			var discard string
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	})
}

// Broadcast sends a reload message to every connected client, dropping
// clients whose send fails.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	snapshot := make([]clientConn, 0, len(h.clients))
	for c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		if err := c.Send([]byte(reloadMessage)); err != nil {
			log.Debugf("livereload: dropping client: %v", err)
			h.remove(c)
			_ = c.Close()
		}
	}
}

// Shutdown closes every client and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	clients := make([]clientConn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[clientConn]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
}

func (h *Hub) add(c clientConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c clientConn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
