package collection

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type memRepo struct {
	snapshots map[string]*Snapshot
}

func newMemRepo() *memRepo {
	return &memRepo{snapshots: make(map[string]*Snapshot)}
}

func (r *memRepo) Save(_ context.Context, path string, payload json.RawMessage) (*Snapshot, error) {
	snapshot := &Snapshot{Path: path, Payload: payload, UpdatedAt: time.Now()}
	r.snapshots[path] = snapshot
	return snapshot, nil
}

func (r *memRepo) Get(_ context.Context, path string) (*Snapshot, error) {
	snapshot, ok := r.snapshots[path]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot, nil
}

func (r *memRepo) List(_ context.Context) ([]string, error) {
	paths := make([]string, 0, len(r.snapshots))
	for path := range r.snapshots {
		paths = append(paths, path)
	}
	return paths, nil
}

type fakeProjector struct {
	applied []json.RawMessage
	err     error
}

func (p *fakeProjector) Apply(_ context.Context, payload json.RawMessage) error {
	p.applied = append(p.applied, payload)
	return p.err
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, slog.Default())

	snapshot, err := service.Save(ctx, "bookings", json.RawMessage(`[{"id":"b1"}]`))
	require.NoError(t, err)
	assert.Equal(t, "bookings", snapshot.Path)

	stored, err := service.Get(ctx, "bookings")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b1"}]`, string(stored.Payload))
}

func TestService_Save_EmptyPayloadBecomesNull(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, slog.Default())

	snapshot, err := service.Save(ctx, "settings", nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(snapshot.Payload))
}

func TestService_Save_InvalidPath(t *testing.T) {
	ctx := context.Background()
	service := NewService(newMemRepo(), slog.Default())

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "reserved queue path", path: "sync_queue"},
		{name: "reserved connection path", path: ".info/connected"},
		{name: "leading dot", path: ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Save(ctx, tt.path, json.RawMessage(`{}`))
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestService_Save_ProjectorApplied(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, slog.Default())

	projector := &fakeProjector{}
	service.RegisterProjector("bookings", projector)

	_, err := service.Save(ctx, "bookings", json.RawMessage(`[]`))
	require.NoError(t, err)
	require.Len(t, projector.applied, 1)

	// Проекция другой коллекции не трогается
	_, err = service.Save(ctx, "settings", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Len(t, projector.applied, 1)
}

func TestService_Save_ProjectorFailureDoesNotFailSave(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, slog.Default())

	service.RegisterProjector("bookings", &fakeProjector{err: errors.New("таблица недоступна")})

	snapshot, err := service.Save(ctx, "bookings", json.RawMessage(`[]`))
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	// Снимок сохранен несмотря на ошибку проекции
	_, err = service.Get(ctx, "bookings")
	assert.NoError(t, err)
}

func TestService_Get_NotFound(t *testing.T) {
	service := NewService(newMemRepo(), slog.Default())

	_, err := service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
