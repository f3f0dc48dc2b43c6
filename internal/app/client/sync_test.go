package client

import (
	"context"
	"encoding/json"
	gosync "sync"
	"testing"
	"time"

	"golang.org/x/exp/slog"
)

// fakeRemote — управляемая замена websocket-клиента для тестов.
type fakeRemote struct {
	mu        gosync.Mutex
	connected bool
	writeErr  error
	written   map[string]string
	subs      map[string][]func(json.RawMessage)
	watchers  []func(bool)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		written: make(map[string]string),
		subs:    make(map[string][]func(json.RawMessage)),
	}
}

func (f *fakeRemote) Write(_ context.Context, collection string, payload json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}

	f.written[collection] = string(payload)
	return nil
}

func (f *fakeRemote) Subscribe(collection string, onData func(json.RawMessage), _ func(error)) (cancel func()) {
	f.mu.Lock()
	f.subs[collection] = append(f.subs[collection], onData)
	idx := len(f.subs[collection]) - 1
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		f.subs[collection][idx] = nil
		f.mu.Unlock()
	}
}

func (f *fakeRemote) OnConnectivityChange(fn func(bool)) (cancel func()) {
	f.mu.Lock()
	f.watchers = append(f.watchers, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeRemote) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeRemote) setOnline(online bool, writeErr error) {
	f.mu.Lock()
	f.connected = online
	f.writeErr = writeErr
	watchers := append([]func(bool){}, f.watchers...)
	f.mu.Unlock()

	for _, fn := range watchers {
		fn(online)
	}
}

func (f *fakeRemote) writtenTo(collection string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[collection]
}

func (f *fakeRemote) pushChange(collection string, payload json.RawMessage) {
	f.mu.Lock()
	handlers := append([]func(json.RawMessage){}, f.subs[collection]...)
	f.mu.Unlock()

	for _, fn := range handlers {
		if fn != nil {
			fn(payload)
		}
	}
}

// scriptedRemote подменяет Write произвольным сценарием, остальное
// поведение наследует от fakeRemote.
type scriptedRemote struct {
	*fakeRemote
	writeFn func(collection string, payload json.RawMessage) error
}

func (s *scriptedRemote) Write(_ context.Context, collection string, payload json.RawMessage) error {
	return s.writeFn(collection, payload)
}

func newTestSync(remote RemoteClient) (*SyncService, KVStore, *PendingQueue) {
	store := NewMemoryStore()
	queue := NewPendingQueue(store, slog.Default())
	return NewSyncService(store, queue, remote, slog.Default()), store, queue
}

func waitResult(t *testing.T, results <-chan SaveResult) SaveResult {
	t.Helper()
	select {
	case result := <-results:
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("Не дождались результата фоновой отправки")
		return SaveResult{}
	}
}

func TestSyncService_SaveAllLocalFirst(t *testing.T) {
	remote := newFakeRemote()
	remote.setOnline(false, ErrOffline)

	service, store, queue := newTestSync(remote)
	defer service.Close()

	results := make(chan SaveResult, 1)
	service.OnResult(func(r SaveResult) { results <- r })

	service.SaveAll("bookings", json.RawMessage(`[{"id":"b1"}]`))

	// Локальная запись синхронная — значение на месте сразу после SaveAll
	cached, ok := store.Get(collectionKey("bookings"))
	if !ok || cached != `[{"id":"b1"}]` {
		t.Fatalf("Снимок должен быть в локальном хранилище сразу, получено %q", cached)
	}

	result := waitResult(t, results)
	if !result.Queued || result.Remote {
		t.Errorf("Офлайн-запись должна уйти в очередь: %+v", result)
	}

	if queue.Len() != 1 {
		t.Errorf("Ожидался 1 элемент очереди, получено %d", queue.Len())
	}
}

func TestSyncService_SaveAllOnline(t *testing.T) {
	remote := newFakeRemote()
	remote.setOnline(true, nil)

	service, _, queue := newTestSync(remote)
	defer service.Close()

	results := make(chan SaveResult, 1)
	service.OnResult(func(r SaveResult) { results <- r })

	service.SaveAll("bookings", json.RawMessage(`[]`))

	result := waitResult(t, results)
	if !result.Remote || result.Queued {
		t.Errorf("Онлайн-запись должна уйти на сервер: %+v", result)
	}

	if queue.Len() != 0 {
		t.Errorf("Очередь должна быть пустой, Len=%d", queue.Len())
	}

	if remote.writtenTo("bookings") != `[]` {
		t.Errorf("Сервер не получил снимок: %q", remote.writtenTo("bookings"))
	}
}

func TestSyncService_FlushOnReconnect(t *testing.T) {
	remote := newFakeRemote()
	remote.setOnline(false, ErrOffline)

	service, _, queue := newTestSync(remote)
	defer service.Close()

	results := make(chan SaveResult, 1)
	service.OnResult(func(r SaveResult) { results <- r })

	service.SaveAll("bookings", json.RawMessage(`[{"id":"offline"}]`))
	waitResult(t, results)

	if queue.Len() != 1 {
		t.Fatalf("Запись должна лежать в очереди, Len=%d", queue.Len())
	}

	// Переход офлайн → онлайн запускает отправку очереди
	remote.setOnline(true, nil)

	deadline := time.Now().Add(2 * time.Second)
	for queue.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if queue.Len() != 0 {
		t.Fatalf("Очередь не опустела после восстановления соединения, Len=%d", queue.Len())
	}

	if remote.writtenTo("bookings") != `[{"id":"offline"}]` {
		t.Errorf("Сервер должен получить отложенный снимок: %q", remote.writtenTo("bookings"))
	}
}

func TestSyncService_QueueKeepsLatestUnderRacingPushes(t *testing.T) {
	// Отправка первого снимка зависает и завершается ошибкой только после
	// того, как второй снимок уже лег в очередь. Очередь при этом обязана
	// сохранить второй снимок, а не откатиться к первому.
	laterQueued := make(chan struct{})

	remote := &scriptedRemote{fakeRemote: newFakeRemote()}
	remote.writeFn = func(_ string, payload json.RawMessage) error {
		if string(payload) == `["p1"]` {
			<-laterQueued
		}
		return ErrOffline
	}

	service, store, queue := newTestSync(remote)
	defer service.Close()

	var once gosync.Once
	results := make(chan SaveResult, 2)
	service.OnResult(func(r SaveResult) {
		if r.Queued {
			once.Do(func() { close(laterQueued) })
		}
		results <- r
	})

	service.SaveAll("bookings", json.RawMessage(`["p1"]`))
	service.SaveAll("bookings", json.RawMessage(`["p2"]`))

	waitResult(t, results)
	waitResult(t, results)

	var sent string
	flushed, remaining := queue.Flush(context.Background(),
		func(_ context.Context, _ string, payload json.RawMessage) error {
			sent = string(payload)
			return nil
		})

	if flushed != 1 || remaining != 0 {
		t.Fatalf("Ожидалась отправка одного снимка, flushed=%d remaining=%d", flushed, remaining)
	}
	if sent != `["p2"]` {
		t.Errorf("На сервер должен уйти последний снимок, отправлено %q", sent)
	}

	cached, _ := store.Get(collectionKey("bookings"))
	if cached != `["p2"]` {
		t.Errorf("Локальное хранилище должно держать последний снимок, получено %q", cached)
	}
}

func TestSyncService_SubscribeLocalCacheFirst(t *testing.T) {
	remote := newFakeRemote()
	service, store, _ := newTestSync(remote)
	defer service.Close()

	store.Set(collectionKey("bookings"), `[{"id":"cached"}]`)

	var first json.RawMessage
	delivered := 0
	cancel := service.Subscribe("bookings", func(payload json.RawMessage) {
		if delivered == 0 {
			first = payload
		}
		delivered++
	})
	defer cancel()

	// Первый вызов синхронный, с локальным кешем
	if delivered != 1 || string(first) != `[{"id":"cached"}]` {
		t.Fatalf("Подписчик должен получить кеш первым, delivered=%d payload=%s", delivered, first)
	}
}

func TestSyncService_SubscribeEmptyCacheDeliversNil(t *testing.T) {
	remote := newFakeRemote()
	service, _, _ := newTestSync(remote)
	defer service.Close()

	delivered := 0
	var first json.RawMessage
	cancel := service.Subscribe("bookings", func(payload json.RawMessage) {
		if delivered == 0 {
			first = payload
		}
		delivered++
	})
	defer cancel()

	if delivered != 1 || first != nil {
		t.Fatalf("Пустой кеш должен доставляться как nil, delivered=%d payload=%v", delivered, first)
	}
}

func TestSyncService_RemoteChangeWritesThrough(t *testing.T) {
	remote := newFakeRemote()
	service, store, _ := newTestSync(remote)
	defer service.Close()

	var payloads []string
	cancel := service.Subscribe("bookings", func(payload json.RawMessage) {
		payloads = append(payloads, string(payload))
	})
	defer cancel()

	remote.pushChange("bookings", json.RawMessage(`[{"id":"server"}]`))

	if len(payloads) != 2 || payloads[1] != `[{"id":"server"}]` {
		t.Fatalf("Серверное изменение не дошло до подписчика: %v", payloads)
	}

	// Изменение записано в локальный кеш до доставки
	cached, ok := store.Get(collectionKey("bookings"))
	if !ok || cached != `[{"id":"server"}]` {
		t.Errorf("Кеш не обновлен серверным изменением: %q", cached)
	}
}

func TestSyncService_CancelStopsDelivery(t *testing.T) {
	remote := newFakeRemote()
	service, _, _ := newTestSync(remote)
	defer service.Close()

	delivered := 0
	cancel := service.Subscribe("bookings", func(json.RawMessage) {
		delivered++
	})

	cancel()
	remote.pushChange("bookings", json.RawMessage(`[]`))

	if delivered != 1 {
		t.Errorf("После отмены подписки доставок быть не должно, delivered=%d", delivered)
	}
}

func TestSyncService_ReservedCollectionRejected(t *testing.T) {
	remote := newFakeRemote()
	service, store, _ := newTestSync(remote)
	defer service.Close()

	service.SaveAll(reservedCollection, json.RawMessage(`{}`))

	if _, ok := store.Get(collectionKey(reservedCollection)); ok {
		t.Error("Зарезервированное имя коллекции не должно записываться")
	}

	cancelled := false
	cancel := service.Subscribe("", func(json.RawMessage) { cancelled = true })
	cancel()

	if cancelled {
		t.Error("Подписка на пустое имя коллекции не должна доставлять данные")
	}
}
