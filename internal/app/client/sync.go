package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"
)

// SyncService — фасад над локальным хранилищем, очередью отложенных записей
// и удаленным клиентом. Все прикладные данные (профили, записи на тренировки,
// абонементы, настройки) проходят через него как снимки именованных коллекций.
//
// Гарантии:
//   - SaveAll всегда успешен с точки зрения вызывающего кода: локальная
//     запись синхронная, отправка на сервер асинхронная, неудача уходит
//     в очередь и разрешается при восстановлении соединения;
//   - Subscribe сначала отдает локальный кеш и только потом серверные
//     изменения; при недоступном сервере подписчик молча получает кеш —
//     тишина и есть сигнал об ошибке;
//   - очередь всегда держит последний отправлявшийся снимок коллекции,
//     итоговое состояние сходится к последней записи.
type SyncService struct {
	store  KVStore
	queue  *PendingQueue
	remote RemoteClient
	log    *slog.Logger

	mu         sync.Mutex
	seq        map[string]uint64
	onResult   func(SaveResult)
	cancelConn func()
}

// SaveResult — результат фоновой отправки снимка. Контракт SaveAll остается
// "выстрелил и забыл", наблюдатель нужен тестам и диагностике.
type SaveResult struct {
	Collection string
	Remote     bool
	Queued     bool
	Err        error
}

func NewSyncService(store KVStore, queue *PendingQueue, remote RemoteClient, log *slog.Logger) *SyncService {
	s := &SyncService{
		store:  store,
		queue:  queue,
		remote: remote,
		seq:    make(map[string]uint64),
		log:    log.With(slog.String("component", "sync")),
	}

	// Переход офлайн → онлайн запускает отправку очереди. Flush идемпотентен,
	// отмена ему не нужна.
	s.cancelConn = remote.OnConnectivityChange(func(connected bool) {
		if connected {
			go s.FlushPending(context.Background())
		}
	})

	return s
}

// SaveAll записывает снимок коллекции: синхронно в локальное хранилище,
// затем асинхронно на сервер. Ошибок не возвращает — дальше локальной
// записи слой для вызывающего кода не существует.
func (s *SyncService) SaveAll(collection string, payload json.RawMessage) {
	if err := validateCollection(collection); err != nil {
		s.log.Error("Недопустимое имя коллекции", "collection", collection, "error", err)
		return
	}

	s.store.Set(collectionKey(collection), string(payload))

	// Каждый снимок получает порядковый номер в своей коллекции. Отправки
	// идут в отдельных горутинах и могут завершаться не по порядку; номер
	// не дает устаревшему результату тронуть очередь.
	s.mu.Lock()
	s.seq[collection]++
	seq := s.seq[collection]
	s.mu.Unlock()

	go s.pushRemote(collection, payload, seq)
}

func (s *SyncService) pushRemote(collection string, payload json.RawMessage, seq uint64) {
	result := SaveResult{Collection: collection}

	err := s.remote.Write(context.Background(), collection, payload)

	// Проверка номера и правка очереди атомарны: устаревший результат не
	// может вклиниться после правки более нового и откатить очередь.
	s.mu.Lock()
	stale := seq != s.seq[collection]
	if !stale {
		if err != nil {
			s.queue.Enqueue(collection, payload)
		} else {
			s.queue.Remove(collection)
		}
	}
	s.mu.Unlock()

	switch {
	case stale:
		// Пока шла отправка, SaveAll выдал более новый снимок — его
		// отправка и разрешит судьбу очереди.
		result.Err = err
		s.log.Debug("Результат отправки устарел и пропущен",
			"collection", collection,
			"error", err)
	case err != nil:
		result.Queued = true
		result.Err = err
		s.log.Debug("Снимок отложен до восстановления соединения",
			"collection", collection,
			"error", err)
	default:
		result.Remote = true
	}

	s.notify(result)
}

// Subscribe подписывается на коллекцию. Первый вызов cb — синхронный, с
// текущим локальным кешем (nil, если коллекция еще не записывалась),
// последующие — при каждом серверном изменении, уже записанном в кеш.
// Возвращенная функция снимает подписку и прекращает вызовы cb.
func (s *SyncService) Subscribe(collection string, cb func(json.RawMessage)) (cancel func()) {
	if err := validateCollection(collection); err != nil {
		s.log.Error("Недопустимое имя коллекции", "collection", collection, "error", err)
		return func() {}
	}

	var mu sync.Mutex
	cancelled := false

	deliver := func(payload json.RawMessage) {
		mu.Lock()
		defer mu.Unlock()
		if cancelled {
			return
		}
		cb(payload)
	}

	// Локальный кеш отдается до регистрации серверной подписки — подписчик
	// никогда не ждет сеть и всегда получает локальное значение первым.
	if cached, ok := s.store.Get(collectionKey(collection)); ok {
		deliver(json.RawMessage(cached))
	} else {
		deliver(nil)
	}

	cancelRemote := s.remote.Subscribe(collection,
		func(payload json.RawMessage) {
			s.store.Set(collectionKey(collection), string(payload))
			deliver(payload)
		},
		func(err error) {
			// Подписчику ошибка не сообщается: кеш уже доставлен, подписка
			// восстановится вместе с соединением.
			s.log.Warn("Ошибка серверной подписки", "collection", collection, "error", err)
		},
	)

	return func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		cancelRemote()
	}
}

// FlushPending отправляет отложенные записи на сервер.
func (s *SyncService) FlushPending(ctx context.Context) (flushed, remaining int) {
	flushed, remaining = s.queue.Flush(ctx, s.remote.Write)
	if flushed > 0 || remaining > 0 {
		s.log.Info("Очередь обработана", "flushed", flushed, "remaining", remaining)
	}
	return flushed, remaining
}

// PendingCount возвращает число отложенных записей.
func (s *SyncService) PendingCount() int {
	return s.queue.Len()
}

// Online сообщает, есть ли соединение с сервером.
func (s *SyncService) Online() bool {
	return s.remote.Connected()
}

// OnResult регистрирует наблюдателя результатов фоновой отправки.
func (s *SyncService) OnResult(fn func(SaveResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResult = fn
}

func (s *SyncService) notify(result SaveResult) {
	s.mu.Lock()
	fn := s.onResult
	s.mu.Unlock()

	if fn != nil {
		fn(result)
	}
}

// Close отписывает сервис от событий соединения.
func (s *SyncService) Close() {
	if s.cancelConn != nil {
		s.cancelConn()
	}
}

func validateCollection(collection string) error {
	if collection == "" {
		return fmt.Errorf("имя коллекции пустое")
	}
	if collection == reservedCollection {
		return fmt.Errorf("имя %q зарезервировано под очередь", collection)
	}
	return nil
}
