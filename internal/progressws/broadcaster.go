// Package progressws streams Monte Carlo progress frames to connected
// websocket clients, the progress-dashboard analogue of
// internal/server/connection.go's per-client send pump and broadcast
// hub, simplified to a one-way (server-to-client) feed: a progress
// dashboard has nothing to send back.
package progressws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Frame is one progress update broadcast to every connected client. The
// Result field is populated only on the final, Done frame.
type Frame struct {
	RealitiesCompleted int         `json:"realitiesCompleted"`
	RealitiesTotal     int         `json:"realitiesTotal"`
	Done               bool        `json:"done"`
	Result             interface{} `json:"result,omitempty"`
}

// Broadcaster fans out Frame values to every connected websocket client,
// mirroring the register/unregister/broadcast shape of the teacher's
// GameService connection registry, but scoped to one simulation run.
type Broadcaster struct {
	logger *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Frame
}

// NewBroadcaster creates a Broadcaster that logs under the "progressws"
// prefix, the way Connection logs under "conn".
func NewBroadcaster(logger *log.Logger) *Broadcaster {
	return &Broadcaster{
		logger:  logger.WithPrefix("progressws"),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection to receive every subsequent Broadcast call until the
// connection closes.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Frame, sendBufferSize)}
	b.register(c)
	defer b.unregister(c)

	go b.readPump(c)
	b.writePump(c)
}

func (b *Broadcaster) register(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c] = struct{}{}
}

func (b *Broadcaster) unregister(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
}

// Broadcast sends frame to every connected client, dropping it for any
// client whose buffer is full instead of blocking the simulation.
func (b *Broadcaster) Broadcast(frame Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- frame:
		default:
			b.logger.Warn("client send buffer full, dropping frame")
		}
	}
}

// readPump only exists to process control frames (ping/pong, close); a
// progress dashboard never sends application messages.
func (b *Broadcaster) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				b.logger.Error("marshal frame failed", "error", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
