// Package spectator serves a human-readable websocket feed of a running
// match: ambient observability glue living outside the core search
// packages, grounded in niceyeti-tabular's server.go upgrade/fan-out
// pattern but deliberately simplified for a single in-process match
// rather than a persistent multi-client dashboard.
package spectator

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// Snapshot is one ply's worth of spectator state: each role's redacted
// view, not the raw engine.State (a spectator is just another observer,
// entitled to no more than any player would see of a shared position).
type Snapshot struct {
	Ply   int                         `json:"ply"`
	Views map[engine.Role]engine.View `json:"views"`
}

// Hub fans out snapshots to every connected websocket client.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(s); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Hub) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("spectator: websocket upgrade failed", "error", err)
		return
	}
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexPage))
}

// Run starts the spectator HTTP server on addr and blocks until it stops
// listening (which, barring a bind error, is never during a match; the
// caller runs this in its own goroutine).
func Run(addr string, h *Hub) error {
	r := mux.NewRouter()
	r.HandleFunc("/", h.serveIndex)
	r.HandleFunc("/ws", h.serveWebsocket)
	return http.ListenAndServe(addr, r)
}

const indexPage = `<!doctype html>
<html>
<head><title>darwinggp spectator</title></head>
<body>
<pre id="log"></pre>
<script>
  const ws = new WebSocket("ws://" + location.host + "/ws");
  const log = document.getElementById("log");
  ws.onmessage = (ev) => {
    log.textContent += ev.data + "\n";
    window.scrollTo(0, document.body.scrollHeight);
  };
</script>
</body>
</html>`
