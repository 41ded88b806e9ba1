package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mfreeman451/camwatch/pkg/models"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type eventClient struct {
	conn *websocket.Conn
	send chan []byte
}

// eventHub fans transitions out to websocket subscribers. Clients that fall
// behind drop messages rather than stall the poll cycle.
type eventHub struct {
	mu      sync.Mutex
	clients map[*eventClient]struct{}
	logger  *zap.Logger
}

func newEventHub(logger *zap.Logger) *eventHub {
	return &eventHub{
		clients: make(map[*eventClient]struct{}),
		logger:  logger,
	}
}

func (h *eventHub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &eventClient{
		conn: conn,
		send: make(chan []byte, clientSendSize),
	}

	h.add(c)

	go h.writeLoop(c)

	// Subscribers never send; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("Websocket subscriber gone", zap.Error(err))
			}

			break
		}
	}

	h.remove(c)
}

func (h *eventHub) writeLoop(c *eventClient) {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("Websocket write failed", zap.Error(err))
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
}

func (h *eventHub) add(c *eventClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
}

func (h *eventHub) remove(c *eventClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *eventHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *eventHub) broadcast(t models.Transition) {
	msg, err := json.Marshal(t)
	if err != nil {
		h.logger.Error("Failed to encode transition event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Dropping transition event for slow subscriber",
				zap.String("device", t.Device))
		}
	}
}

func (h *eventHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
