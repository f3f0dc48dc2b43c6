package client

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/exp/slog"
)

// PendingQueue — очередь отложенных записей. Хранит последнее желаемое
// состояние каждой коллекции, записанное при недоступном сервере, и
// переживает перезапуск процесса: карта коллекция → снимок лежит в
// локальном хранилище под зарезервированным ключом.
//
// Очередь ключуется коллекцией, а не отдельной записью: сколько бы записей
// ни было сделано офлайн, в очереди не больше N элементов, где N — число
// различных коллекций.
type PendingQueue struct {
	store KVStore
	log   *slog.Logger
	mu    sync.Mutex
}

// RemoteWriter — функция отправки снимка коллекции на сервер.
type RemoteWriter func(ctx context.Context, collection string, payload json.RawMessage) error

func NewPendingQueue(store KVStore, log *slog.Logger) *PendingQueue {
	return &PendingQueue{
		store: store,
		log:   log.With(slog.String("component", "pending_queue")),
	}
}

// Enqueue запоминает снимок коллекции до успешной отправки на сервер.
// Новая запись по той же коллекции перезаписывает старую: снимок всегда
// полный, поэтому действует политика "последняя запись побеждает".
func (q *PendingQueue) Enqueue(collection string, payload json.RawMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.load()
	pending[collection] = payload
	q.persist(pending)

	q.log.Debug("Запись отложена", "collection", collection, "queued", len(pending))
}

// Remove удаляет отложенную запись коллекции после успешной отправки.
func (q *PendingQueue) Remove(collection string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.load()
	if _, ok := pending[collection]; !ok {
		return
	}

	delete(pending, collection)
	q.persist(pending)
}

// Flush пытается отправить каждую отложенную запись. Элементы независимы:
// успешные удаляются из очереди, неудачные остаются до следующего вызова.
// Повторный запуск безопасен, собственных повторов и задержек у очереди
// нет — Flush вызывается снаружи при восстановлении соединения.
func (q *PendingQueue) Flush(ctx context.Context, write RemoteWriter) (flushed, remaining int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.load()
	if len(pending) == 0 {
		return 0, 0
	}

	q.log.Info("Отправка отложенных записей", "count", len(pending))

	for collection, payload := range pending {
		if err := write(ctx, collection, payload); err != nil {
			q.log.Warn("Отложенная запись не отправлена",
				"collection", collection,
				"error", err)
			continue
		}

		delete(pending, collection)
		flushed++
	}

	q.persist(pending)
	return flushed, len(pending)
}

// Len возвращает число отложенных записей.
func (q *PendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.load())
}

// Collections возвращает коллекции, ожидающие отправки.
func (q *PendingQueue) Collections() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.load()
	collections := make([]string, 0, len(pending))
	for collection := range pending {
		collections = append(collections, collection)
	}

	return collections
}

// load читает карту очереди из хранилища. Испорченное или нечитаемое
// значение равносильно пустой очереди: терять очередь из-за битого кеша
// хуже, чем начать с чистого листа.
func (q *PendingQueue) load() map[string]json.RawMessage {
	pending := make(map[string]json.RawMessage)

	raw, ok := q.store.Get(queueKey)
	if !ok || raw == "" {
		return pending
	}

	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		q.log.Warn("Очередь в хранилище повреждена, начинаем с пустой", "error", err)
		return make(map[string]json.RawMessage)
	}

	return pending
}

func (q *PendingQueue) persist(pending map[string]json.RawMessage) {
	data, err := json.Marshal(pending)
	if err != nil {
		q.log.Error("Ошибка сериализации очереди", "error", err)
		return
	}

	q.store.Set(queueKey, string(data))
}
