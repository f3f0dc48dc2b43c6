package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

// Типы кадров протокола реального времени (общие с клиентом).
const (
	frameWrite       = "write"
	frameSubscribe   = "subscribe"
	frameUnsubscribe = "unsubscribe"
	frameChange      = "change"
	frameAck         = "ack"
)

type frame struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	Collection string          `json:"collection,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// wsConn — соединение с клиентом. Библиотека websocket допускает только
// одного писателя, запись сериализуется мьютексом.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(f frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(f)
}

// Hub держит подписчиков по коллекциям и рассылает им изменения.
// Мертвые соединения отсеиваются при первой неудачной записи.
type Hub struct {
	log    *slog.Logger
	bridge *Bridge

	mu          sync.Mutex
	subscribers map[string][]*wsConn
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:         log.With(slog.String("component", "realtime_hub")),
		subscribers: make(map[string][]*wsConn),
	}
}

// SetBridge подключает мост рассылки между экземплярами сервера.
func (h *Hub) SetBridge(b *Bridge) {
	h.bridge = b
}

func (h *Hub) subscribe(collection string, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.subscribers[collection] {
		if existing == c {
			return
		}
	}

	h.subscribers[collection] = append(h.subscribers[collection], c)
}

func (h *Hub) unsubscribe(collection string, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subscribers[collection]
	filtered := make([]*wsConn, 0, len(conns))
	for _, existing := range conns {
		if existing != c {
			filtered = append(filtered, existing)
		}
	}
	h.subscribers[collection] = filtered
}

// drop снимает соединение со всех коллекций при его закрытии.
func (h *Hub) drop(c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for collection, conns := range h.subscribers {
		filtered := make([]*wsConn, 0, len(conns))
		for _, existing := range conns {
			if existing != c {
				filtered = append(filtered, existing)
			}
		}
		h.subscribers[collection] = filtered
	}
}

// Broadcast рассылает изменение коллекции локальным подписчикам и,
// если настроен мост, остальным экземплярам сервера.
func (h *Hub) Broadcast(collection string, payload json.RawMessage) {
	h.broadcastLocal(collection, payload)

	if h.bridge != nil {
		h.bridge.Publish(collection, payload)
	}
}

// broadcastLocal пишет в соединения вне мьютекса: медленный клиент
// задерживает только собственную доставку, а не весь узел.
func (h *Hub) broadcastLocal(collection string, payload json.RawMessage) {
	h.mu.Lock()
	conns := append([]*wsConn(nil), h.subscribers[collection]...)
	h.mu.Unlock()

	f := frame{Type: frameChange, Collection: collection, Payload: payload}
	for _, c := range conns {
		if err := c.send(f); err != nil {
			c.conn.Close()
			h.drop(c)
		}
	}
}
