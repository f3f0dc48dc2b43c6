package client

import (
	"fmt"
	"sync"
)

const (
	// keyNamespace — префикс всех ключей приложения в локальном хранилище.
	keyNamespace = "gymsync"

	// queueKey — зарезервированный ключ очереди отложенных записей.
	queueKey = keyNamespace + "_sync_queue"

	// reservedCollection — имя коллекции, совпадающее с ключом очереди; запрещено.
	reservedCollection = "sync_queue"
)

// collectionKey возвращает ключ локального кеша для коллекции.
func collectionKey(collection string) string {
	return fmt.Sprintf("%s_%s_db", keyNamespace, collection)
}

// KVStore — локальное долговременное хранилище ключ-значение.
// Чтение и запись синхронные; ошибки носителя не доходят до вызывающего кода:
// хранилище либо отдает значение, либо сообщает, что его нет.
type KVStore interface {
	// Get возвращает значение по ключу и признак его наличия.
	Get(key string) (string, bool)

	// Set записывает значение по ключу, перезаписывая старое.
	Set(key, value string)

	// Delete удаляет значение по ключу.
	Delete(key string)

	// Close освобождает ресурсы хранилища.
	Close() error
}

// MemoryStore — хранилище в памяти. Используется в тестах и как
// запасной вариант, когда SQLite недоступен.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

func (s *MemoryStore) Close() error {
	return nil
}
