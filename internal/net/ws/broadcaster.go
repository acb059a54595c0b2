package ws

import (
	"encoding/json"
	nethttp "net/http"
	"sync"

	"github.com/gorilla/websocket"

	"blockpath/engine/nav"
	"blockpath/engine/telemetry"
)

// Broadcaster fans search-trace frames out to every connected debug client.
// Slow clients are dropped rather than allowed to stall the search loop.
type Broadcaster struct {
	logger   telemetry.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewBroadcaster(logger telemetry.Logger) *Broadcaster {
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	return &Broadcaster{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the request and keeps the connection registered until the
// peer goes away. Inbound frames are discarded; the stream is one-way.
func (b *Broadcaster) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Printf("ws upgrade failed: %v", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	b.drop(conn)
}

// ClientCount reports the number of connected debug clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Trace implements nav.TraceFunc, streaming one frame per expansion.
func (b *Broadcaster) Trace(event nav.TraceEvent) {
	b.send(map[string]any{
		"type":  "expansion",
		"event": event,
	})
}

// Announce pushes an arbitrary frame, used for search results.
func (b *Broadcaster) Announce(frame any) {
	b.send(frame)
}

func (b *Broadcaster) send(frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		b.logger.Printf("ws marshal failed: %v", err)
		return
	}

	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		conns = append(conns, conn)
	}
	b.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			b.drop(conn)
		}
	}
}

func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	_, known := b.clients[conn]
	delete(b.clients, conn)
	b.mu.Unlock()
	if known {
		conn.Close()
	}
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		conns = append(conns, conn)
	}
	b.clients = make(map[*websocket.Conn]struct{})
	b.mu.Unlock()

	for _, conn := range conns {
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutting down")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
	}
}
