package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

// Типы кадров протокола реального времени. Протокол общий с сервером:
// клиент шлет write/subscribe/unsubscribe, сервер отвечает ack и рассылает change.
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

type subscriber struct {
	onData  func(json.RawMessage)
	onError func(error)
}

// WSRemote — реализация RemoteClient поверх websocket. Держит одно
// постоянное соединение с сервером, переподключается с фиксированной
// задержкой и заново оформляет подписки после каждого переподключения.
// Переходы состояния соединения сообщаются наблюдателям — на переходе
// офлайн → онлайн сервис синхронизации запускает отправку очереди.
type WSRemote struct {
	url        string
	log        *slog.Logger
	dialer     *websocket.Dialer
	retryDelay time.Duration

	mu        sync.Mutex
	writeMu   sync.Mutex
	conn      *websocket.Conn
	connected bool
	token     string

	subs      map[string]map[int]*subscriber
	nextSubID int

	watchers      map[int]func(bool)
	nextWatcherID int

	pending map[string]chan error
}

func NewWSRemote(url string, log *slog.Logger) *WSRemote {
	return &WSRemote{
		url: url,
		log: log.With(slog.String("component", "ws_remote")),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		retryDelay: 5 * time.Second,
		subs:       make(map[string]map[int]*subscriber),
		watchers:   make(map[int]func(bool)),
		pending:    make(map[string]chan error),
	}
}

// SetToken задает токен сессии для последующих подключений. Сервер
// не принимает websocket без действующего токена, до входа клиент
// работает офлайн.
func (r *WSRemote) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

// Run держит соединение с сервером до отмены контекста.
func (r *WSRemote) Run(ctx context.Context) {
	for {
		conn, _, err := r.dialer.DialContext(ctx, r.url, r.dialHeader())
		if err != nil {
			r.log.Debug("Сервер недоступен", "error", err)
		} else {
			r.mu.Lock()
			r.conn = conn
			r.mu.Unlock()

			r.setConnected(true)
			r.resubscribe(conn)

			readDone := make(chan struct{})
			go func() {
				select {
				case <-ctx.Done():
					conn.Close()
				case <-readDone:
				}
			}()

			r.readLoop(conn)
			close(readDone)

			r.setConnected(false)
			r.failPending(ErrOffline)
			conn.Close()

			r.mu.Lock()
			r.conn = nil
			r.mu.Unlock()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.retryDelay):
		}
	}
}

func (r *WSRemote) dialHeader() http.Header {
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()

	if token == "" {
		return nil
	}
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func (r *WSRemote) readLoop(conn *websocket.Conn) {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			r.log.Debug("Соединение с сервером потеряно", "error", err)
			return
		}

		switch f.Type {
		case frameAck:
			r.resolvePending(f.ID, f.Error)
		case frameChange:
			r.dispatchChange(f.Collection, f.Payload)
		default:
			r.log.Warn("Неизвестный тип кадра", "type", f.Type)
		}
	}
}

// Write отправляет снимок коллекции и ждет подтверждения сервера.
func (r *WSRemote) Write(ctx context.Context, collection string, payload json.RawMessage) error {
	r.mu.Lock()
	if !r.connected || r.conn == nil {
		r.mu.Unlock()
		return ErrOffline
	}

	id := uuid.NewString()
	ack := make(chan error, 1)
	r.pending[id] = ack
	conn := r.conn
	r.mu.Unlock()

	err := r.send(conn, frame{
		Type:       frameWrite,
		ID:         id,
		Collection: collection,
		Payload:    payload,
	})
	if err != nil {
		r.dropPending(id)
		return err
	}

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		r.dropPending(id)
		return ctx.Err()
	}
}

// Subscribe регистрирует обработчик изменений коллекции.
func (r *WSRemote) Subscribe(collection string, onData func(json.RawMessage), onError func(error)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++

	if r.subs[collection] == nil {
		r.subs[collection] = make(map[int]*subscriber)
	}
	r.subs[collection][id] = &subscriber{onData: onData, onError: onError}

	conn := r.conn
	connected := r.connected
	first := len(r.subs[collection]) == 1
	r.mu.Unlock()

	// Первая подписка на коллекцию оформляется на сервере; остальные
	// разделяют уже открытый поток изменений.
	if connected && first {
		if err := r.send(conn, frame{Type: frameSubscribe, Collection: collection}); err != nil && onError != nil {
			onError(err)
		}
	}

	return func() {
		r.mu.Lock()
		delete(r.subs[collection], id)
		last := len(r.subs[collection]) == 0
		if last {
			delete(r.subs, collection)
		}
		conn := r.conn
		connected := r.connected
		r.mu.Unlock()

		if connected && last {
			_ = r.send(conn, frame{Type: frameUnsubscribe, Collection: collection})
		}
	}
}

// OnConnectivityChange регистрирует наблюдателя переходов соединения.
func (r *WSRemote) OnConnectivityChange(fn func(bool)) (cancel func()) {
	r.mu.Lock()
	id := r.nextWatcherID
	r.nextWatcherID++
	r.watchers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.watchers, id)
		r.mu.Unlock()
	}
}

// Connected сообщает текущее состояние соединения.
func (r *WSRemote) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

func (r *WSRemote) send(conn *websocket.Conn, f frame) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return conn.WriteJSON(f)
}

// setConnected меняет состояние соединения и уведомляет наблюдателей,
// только если состояние действительно изменилось.
func (r *WSRemote) setConnected(connected bool) {
	r.mu.Lock()
	if r.connected == connected {
		r.mu.Unlock()
		return
	}
	r.connected = connected

	watchers := make([]func(bool), 0, len(r.watchers))
	for _, fn := range r.watchers {
		watchers = append(watchers, fn)
	}
	r.mu.Unlock()

	if connected {
		r.log.Info("Соединение с сервером установлено")
	} else {
		r.log.Info("Соединение с сервером потеряно")
	}

	for _, fn := range watchers {
		fn(connected)
	}
}

// resubscribe заново оформляет подписки после переподключения.
func (r *WSRemote) resubscribe(conn *websocket.Conn) {
	r.mu.Lock()
	collections := make([]string, 0, len(r.subs))
	for collection := range r.subs {
		collections = append(collections, collection)
	}
	r.mu.Unlock()

	for _, collection := range collections {
		if err := r.send(conn, frame{Type: frameSubscribe, Collection: collection}); err != nil {
			r.log.Warn("Ошибка восстановления подписки", "collection", collection, "error", err)
		}
	}
}

func (r *WSRemote) dispatchChange(collection string, payload json.RawMessage) {
	r.mu.Lock()
	handlers := make([]*subscriber, 0, len(r.subs[collection]))
	for _, sub := range r.subs[collection] {
		handlers = append(handlers, sub)
	}
	r.mu.Unlock()

	for _, sub := range handlers {
		sub.onData(payload)
	}
}

func (r *WSRemote) resolvePending(id, errMsg string) {
	r.mu.Lock()
	ack, ok := r.pending[id]
	delete(r.pending, id)
	r.mu.Unlock()

	if !ok {
		return
	}

	if errMsg != "" {
		ack <- errors.New(errMsg)
	} else {
		ack <- nil
	}
}

func (r *WSRemote) dropPending(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

// failPending завершает все неподтвержденные записи при обрыве соединения.
func (r *WSRemote) failPending(err error) {
	r.mu.Lock()
	pending := r.pending
	r.pending = make(map[string]chan error)
	r.mu.Unlock()

	for _, ack := range pending {
		ack <- err
	}
}
