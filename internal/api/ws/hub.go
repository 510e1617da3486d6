package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/your-org/campustrack/internal/observability"
	"github.com/your-org/campustrack/internal/tracking"
	"github.com/your-org/campustrack/pkg/dto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// FilterFunc answers a client's filter request with the payload of a filter_result.
type FilterFunc func(raw tracking.RawCriteria) (any, error)

type HubConfig struct {
	Filter       FilterFunc
	Debounce     time.Duration
	DismissAfter time.Duration
}

// Client represents a connected WebSocket client.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	filter *tracking.Debouncer[tracking.RawCriteria]

	mu     sync.Mutex
	closed bool
}

// trySend queues msg without blocking. It reports false when the client is
// gone or its buffer is full.
func (c *Client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub maintains active WebSocket clients and broadcasts events.
type Hub struct {
	cfg HubConfig

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub(cfg HubConfig) *Hub {
	return &Hub{
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub event loop until ctx is done. Call this in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			observability.WSConnections.Inc()
			slog.Debug("ws client connected")

		case client := <-h.unregister:
			h.drop(client)
			slog.Debug("ws client disconnected")

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				if !client.trySend(message) {
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			// Client buffer full, disconnect
			for _, client := range slow {
				h.drop(client)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.filter.Cancel()
				client.close()
				observability.WSConnections.Dec()
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.filter.Cancel()
		client.close()
		observability.WSConnections.Dec()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastEvent sends an event to all connected clients.
func (h *Hub) BroadcastEvent(event *dto.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal ws event", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Notify broadcasts a transient notification and its dismissal once
// DismissAfter has passed.
func (h *Hub) Notify(level, message string) {
	n := &dto.Notification{
		ID:             uuid.New().String(),
		Level:          level,
		Message:        message,
		DismissAfterMS: h.cfg.DismissAfter.Milliseconds(),
	}
	observability.Notifications.WithLabelValues(level).Inc()
	h.BroadcastEvent(&dto.WSEvent{Type: dto.WSNotification, Notification: n})

	time.AfterFunc(h.cfg.DismissAfter, func() {
		h.BroadcastEvent(&dto.WSEvent{
			Type:         dto.WSNotificationDismissed,
			Notification: &dto.Notification{ID: n.ID},
		})
	})
}

// HandleWS handles WebSocket upgrade requests.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("ws upgrade failed", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	client.filter = tracking.NewDebouncer(h.cfg.Debounce, func(raw tracking.RawCriteria) {
		h.answerFilter(client, raw)
	})

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (h *Hub) answerFilter(client *Client, raw tracking.RawCriteria) {
	evt := &dto.WSEvent{Type: dto.WSFilterResult}
	if h.cfg.Filter == nil {
		evt.Data = dto.ErrorResponse{Error: "filtering unavailable"}
	} else if data, err := h.cfg.Filter(raw); err != nil {
		resp := dto.ErrorResponse{Error: err.Error()}
		var ve *tracking.ValidationError
		if errors.As(err, &ve) {
			resp = dto.ErrorResponse{Error: ve.Message, Field: ve.Field}
		}
		evt.Data = resp
	} else {
		evt.Data = data
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		slog.Error("marshal filter result", "error", err)
		return
	}
	if !client.trySend(msg) {
		slog.Debug("drop filter result for gone client")
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// clientMessage is what views send. Only "filter" is understood.
type clientMessage struct {
	Type     string         `json:"type"`
	Criteria map[string]any `json:"criteria"`
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		c.filter.Cancel()
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("ignore malformed ws message", "error", err)
			continue
		}
		if msg.Type == dto.WSFilter {
			c.filter.Call(rawCriteria(msg.Criteria))
		}
	}
}

// rawCriteria accepts criteria values as strings or numbers.
func rawCriteria(m map[string]any) tracking.RawCriteria {
	str := func(key string) string {
		switch v := m[key].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
		return ""
	}
	return tracking.RawCriteria{
		DateFrom:    str("date_from"),
		DateTo:      str("date_to"),
		Camera:      str("camera"),
		Duration:    str("duration"),
		MaxDuration: str("max_duration"),
		Status:      str("status"),
		PersonID:    str("person_id"),
	}
}
