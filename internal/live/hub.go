package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"reddit-ideas/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// EventIdeaCreated is sent once per committed idea.
	EventIdeaCreated = "idea.created"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

// Event is the payload written to every connected client.
type Event struct {
	Type string          `json:"type"`
	Idea models.FeedIdea `json:"idea"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done <-chan struct{}
}

// Hub fans new ideas out to websocket clients. A client that cannot keep up
// is disconnected rather than slowing the others down.
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]bool
	count      atomic.Int64

	mu      sync.Mutex
	done    chan struct{} // closed when the current Run exits
	stopped bool
}

// NewHub creates a hub. Run must be started before clients are served.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[*client]bool),
	}
}

// Run owns the client set until ctx is cancelled. It may be started again
// after it returns.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	if h.stopped {
		h.done = make(chan struct{})
		h.stopped = false
	}
	done := h.done
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.stopped = true
		close(done)
		h.mu.Unlock()
	}()

	log.Println("[LIVE] Hub started")

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			log.Println("[LIVE] Hub stopped")
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Add(1)

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					log.Printf("[LIVE] Dropping slow client %s", c.conn.RemoteAddr())
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// PublishIdea queues an idea.created event. It never blocks the caller.
func (h *Hub) PublishIdea(idea *models.Idea) {
	if idea == nil {
		return
	}

	data, err := json.Marshal(Event{Type: EventIdeaCreated, Idea: idea.Feed()})
	if err != nil {
		log.Printf("[LIVE] Failed to encode idea %s: %v", idea.ID, err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("[LIVE] Broadcast queue full, skipping idea %s", idea.ID)
	}
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[LIVE] Upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	done := h.done
	h.mu.Unlock()

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), done: done}
	select {
	case h.register <- c:
	case <-done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

// Handler adapts ServeWS for gin routes
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ServeWS(c.Writer, c.Request)
	}
}

// readPump discards client messages and detects disconnects
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-c.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[LIVE] Read error: %v", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
