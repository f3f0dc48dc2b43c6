package realtime

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"gymsync/internal/domain/collection"
	"gymsync/internal/domain/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Клиенты — мобильные приложения и CLI, проверка Origin не нужна
		return true
	},
}

// Handler обслуживает websocket-подключения клиентов синхронизации:
// принимает кадры write/subscribe/unsubscribe, подтверждает записи и
// раздает изменения коллекций через Hub.
type Handler struct {
	hub      *Hub
	service  collection.Servicer
	sessions session.Servicer
	log      *slog.Logger
}

func NewHandler(hub *Hub, service collection.Servicer, sessions session.Servicer, log *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		service:  service,
		sessions: sessions,
		log:      log.With(slog.String("component", "realtime")),
	}
}

// ServeWS проверяет Bearer-токен, переводит запрос в websocket и
// обрабатывает кадры клиента до разрыва соединения. Websocket дает те же
// права на коллекции, что и REST, и закрыт той же проверкой сессии.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if !strings.HasPrefix(token, "Bearer ") {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := h.sessions.Validate(r.Context(), strings.TrimPrefix(token, "Bearer "))
	if err != nil {
		h.log.Debug("Недействительный токен websocket", "error", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Ошибка апгрейда websocket", "error", err)
		return
	}

	c := &wsConn{conn: conn}
	defer func() {
		h.hub.drop(c)
		conn.Close()
	}()

	h.log.Debug("Клиент подключился", "remote_addr", conn.RemoteAddr(), "user_id", userID)

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			h.log.Debug("Клиент отключился", "remote_addr", conn.RemoteAddr())
			return
		}

		switch f.Type {
		case frameWrite:
			h.handleWrite(r.Context(), c, f)
		case frameSubscribe:
			h.handleSubscribe(r.Context(), c, f)
		case frameUnsubscribe:
			h.hub.unsubscribe(f.Collection, c)
		default:
			h.log.Warn("Неизвестный тип кадра", "type", f.Type)
		}
	}
}

func (h *Handler) handleWrite(ctx context.Context, c *wsConn, f frame) {
	_, err := h.service.Save(ctx, f.Collection, f.Payload)

	ack := frame{Type: frameAck, ID: f.ID}
	if err != nil {
		ack.Error = err.Error()
	}

	if sendErr := c.send(ack); sendErr != nil {
		h.log.Debug("Не удалось подтвердить запись", "error", sendErr)
		return
	}

	if err == nil {
		h.hub.Broadcast(f.Collection, f.Payload)
	}
}

// handleSubscribe регистрирует подписку и сразу шлет текущий снимок,
// если коллекция уже записывалась.
func (h *Handler) handleSubscribe(ctx context.Context, c *wsConn, f frame) {
	h.hub.subscribe(f.Collection, c)

	snapshot, err := h.service.Get(ctx, f.Collection)
	if err != nil {
		if !errors.Is(err, collection.ErrNotFound) {
			h.log.Warn("Ошибка чтения снимка при подписке",
				"collection", f.Collection,
				"error", err)
		}
		return
	}

	if err := c.send(frame{
		Type:       frameChange,
		Collection: f.Collection,
		Payload:    snapshot.Payload,
	}); err != nil {
		h.log.Debug("Не удалось отправить снимок подписчику", "error", err)
	}
}
