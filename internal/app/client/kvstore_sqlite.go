package client

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

// SQLiteStore — локальное хранилище на SQLite. Одна таблица ключ-значение,
// WAL для надежности при внезапном завершении процесса.
//
// Контракт KVStore не допускает ошибок при чтении и записи: ошибки SQLite
// логируются, чтение при ошибке ведет себя как отсутствие значения.
// Локальный кеш носит вспомогательный характер, тихое восстановление
// здесь важнее строгости.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSQLiteStore(path string, log *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	store := &SQLiteStore{db: db, log: log}

	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)

	return err
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.log.Warn("Ошибка чтения из локального хранилища", "key", key, "error", err)
		return "", false
	}

	return value, true
}

func (s *SQLiteStore) Set(key, value string) {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		s.log.Error("Ошибка записи в локальное хранилище", "key", key, "error", err)
	}
}

func (s *SQLiteStore) Delete(key string) {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		s.log.Warn("Ошибка удаления из локального хранилища", "key", key, "error", err)
	}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
