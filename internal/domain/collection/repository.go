package collection

import (
	"context"
	"encoding/json"
)

// Repository — серверное хранилище снимков коллекций.
type Repository interface {
	// Save записывает снимок, перезаписывая предыдущий.
	Save(ctx context.Context, path string, payload json.RawMessage) (*Snapshot, error)

	// Get возвращает снимок коллекции.
	Get(ctx context.Context, path string) (*Snapshot, error)

	// List возвращает пути всех коллекций.
	List(ctx context.Context) ([]string, error)
}
