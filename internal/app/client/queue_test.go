package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"golang.org/x/exp/slog"
)

func TestPendingQueue_LastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	queue := NewPendingQueue(store, slog.Default())

	queue.Enqueue("bookings", json.RawMessage(`[{"id":"old"}]`))
	queue.Enqueue("bookings", json.RawMessage(`[{"id":"new"}]`))
	queue.Enqueue("settings", json.RawMessage(`{}`))

	if queue.Len() != 2 {
		t.Fatalf("Ожидалось 2 элемента очереди, получено %d", queue.Len())
	}

	var sent []string
	flushed, remaining := queue.Flush(context.Background(), func(_ context.Context, collection string, payload json.RawMessage) error {
		if collection == "bookings" {
			sent = append(sent, string(payload))
		}
		return nil
	})

	if flushed != 2 || remaining != 0 {
		t.Fatalf("Ожидалась полная отправка, flushed=%d remaining=%d", flushed, remaining)
	}

	if len(sent) != 1 || sent[0] != `[{"id":"new"}]` {
		t.Errorf("На сервер должен уйти последний снимок коллекции, получено %v", sent)
	}
}

func TestPendingQueue_SurvivesRestart(t *testing.T) {
	store := NewMemoryStore()

	queue := NewPendingQueue(store, slog.Default())
	queue.Enqueue("bookings", json.RawMessage(`[]`))

	// Новый экземпляр над тем же хранилищем видит очередь
	restarted := NewPendingQueue(store, slog.Default())
	if restarted.Len() != 1 {
		t.Fatalf("Очередь должна пережить перезапуск, Len=%d", restarted.Len())
	}

	collections := restarted.Collections()
	if len(collections) != 1 || collections[0] != "bookings" {
		t.Errorf("Неожиданный состав очереди: %v", collections)
	}
}

func TestPendingQueue_CorruptedValueMeansEmpty(t *testing.T) {
	store := NewMemoryStore()
	store.Set(queueKey, "{битый json")

	queue := NewPendingQueue(store, slog.Default())

	if queue.Len() != 0 {
		t.Fatalf("Испорченная очередь должна читаться как пустая, Len=%d", queue.Len())
	}

	// Очередь остается рабочей после порчи
	queue.Enqueue("bookings", json.RawMessage(`[]`))
	if queue.Len() != 1 {
		t.Errorf("Очередь не принимает записи после порчи, Len=%d", queue.Len())
	}
}

func TestPendingQueue_PartialFlush(t *testing.T) {
	store := NewMemoryStore()
	queue := NewPendingQueue(store, slog.Default())

	queue.Enqueue("bookings", json.RawMessage(`[]`))
	queue.Enqueue("settings", json.RawMessage(`{}`))

	flushed, remaining := queue.Flush(context.Background(), func(_ context.Context, collection string, _ json.RawMessage) error {
		if collection == "settings" {
			return errors.New("сервер отказал")
		}
		return nil
	})

	if flushed != 1 || remaining != 1 {
		t.Fatalf("Ожидалась частичная отправка, flushed=%d remaining=%d", flushed, remaining)
	}

	// Неотправленный элемент остается до следующего вызова
	flushed, remaining = queue.Flush(context.Background(), func(_ context.Context, _ string, _ json.RawMessage) error {
		return nil
	})

	if flushed != 1 || remaining != 0 {
		t.Fatalf("Повторная отправка должна добить очередь, flushed=%d remaining=%d", flushed, remaining)
	}
}

func TestPendingQueue_RemoveIdempotent(t *testing.T) {
	store := NewMemoryStore()
	queue := NewPendingQueue(store, slog.Default())

	queue.Enqueue("bookings", json.RawMessage(`[]`))
	queue.Remove("bookings")
	queue.Remove("bookings")
	queue.Remove("missing")

	if queue.Len() != 0 {
		t.Errorf("Очередь должна быть пустой, Len=%d", queue.Len())
	}
}
