// Package events pushes studio change notifications to WebSocket clients.
package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"topaz-studio/internal/logging"
	"topaz-studio/internal/studio"
)

const (
	clientBuffer = 32
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

type client struct {
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans events out to the subscribers of each session. A client whose
// buffer is full is dropped instead of blocking the publisher.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	topics map[string]map[*client]struct{}
}

type Options struct {
	Logger      *slog.Logger
	CheckOrigin func(r *http.Request) bool
}

func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	check := opts.CheckOrigin
	if check == nil {
		check = func(*http.Request) bool { return true }
	}
	return &Hub{
		logger:   logging.WithComponent(logger, "events"),
		upgrader: websocket.Upgrader{CheckOrigin: check},
		topics:   make(map[string]map[*client]struct{}),
	}
}

// Publish implements studio.Notifier.
func (h *Hub) Publish(ev studio.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event failed", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.topics[ev.Session] {
		select {
		case c.send <- msg:
		default:
			h.removeLocked(ev.Session, c)
			h.logger.Warn("dropping slow client", "session_id", ev.Session)
		}
	}
}

func (h *Hub) Subscribers(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[session])
}

func (h *Hub) subscribe(session string) *client {
	c := &client{send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[session]
	if !ok {
		subs = make(map[*client]struct{})
		h.topics[session] = subs
	}
	subs[c] = struct{}{}
	return c
}

func (h *Hub) unsubscribe(session string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(session, c)
}

func (h *Hub) removeLocked(session string, c *client) {
	subs, ok := h.topics[session]
	if !ok {
		return
	}
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.topics, session)
	}
	c.close()
}

// Serve upgrades the request and streams the session's events until either
// side goes away. initial, when non-nil, is written first.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, session string, initial any) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session_id", session, "err", err)
		return
	}
	defer conn.Close()

	c := h.subscribe(session)
	defer h.unsubscribe(session, c)

	if initial != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(initial); err != nil {
			return
		}
	}

	go h.readLoop(conn, session, c)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards client frames and unsubscribes once the peer closes.
func (h *Hub) readLoop(conn *websocket.Conn, session string, c *client) {
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unsubscribe(session, c)
			return
		}
	}
}
