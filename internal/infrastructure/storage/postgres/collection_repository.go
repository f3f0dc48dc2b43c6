package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"gymsync/internal/domain/collection"
)

// CollectionRepository — хранилище снимков коллекций в PostgreSQL.
// Один снимок на путь, запись перезаписывает предыдущий снимок целиком.
type CollectionRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewCollectionRepository(db *Storage, log *slog.Logger) *CollectionRepository {
	return &CollectionRepository{
		db:  db,
		log: log,
	}
}

func (r *CollectionRepository) Save(ctx context.Context, path string, payload json.RawMessage) (*collection.Snapshot, error) {
	var updatedAt time.Time
	err := r.db.Pool().QueryRow(ctx, `
		INSERT INTO collections (path, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (path) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`, path, payload).Scan(&updatedAt)
	if err != nil {
		return nil, fmt.Errorf("сохранение снимка: %w", err)
	}

	return &collection.Snapshot{
		Path:      path,
		Payload:   payload,
		UpdatedAt: updatedAt,
	}, nil
}

func (r *CollectionRepository) Get(ctx context.Context, path string) (*collection.Snapshot, error) {
	var snapshot collection.Snapshot
	err := r.db.Pool().QueryRow(ctx, `
		SELECT path, payload, updated_at
		FROM collections
		WHERE path = $1
	`, path).Scan(&snapshot.Path, &snapshot.Payload, &snapshot.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, collection.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("чтение снимка: %w", err)
	}

	return &snapshot, nil
}

func (r *CollectionRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool().Query(ctx, `SELECT path FROM collections ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("выборка коллекций: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("сканирование пути: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}
