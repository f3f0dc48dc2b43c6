package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"gymsync/internal/domain/booking"
	"gymsync/internal/domain/collection"
)

type fakeCollectionService struct {
	saved map[string]json.RawMessage
}

func newFakeCollectionService() *fakeCollectionService {
	return &fakeCollectionService{saved: make(map[string]json.RawMessage)}
}

func (f *fakeCollectionService) Save(_ context.Context, path string, payload json.RawMessage) (*collection.Snapshot, error) {
	f.saved[path] = payload
	return &collection.Snapshot{Path: path, Payload: payload, UpdatedAt: time.Now()}, nil
}

func (f *fakeCollectionService) Get(_ context.Context, path string) (*collection.Snapshot, error) {
	payload, ok := f.saved[path]
	if !ok {
		return nil, collection.ErrNotFound
	}
	return &collection.Snapshot{Path: path, Payload: payload}, nil
}

func (f *fakeCollectionService) List(_ context.Context) ([]string, error) {
	paths := make([]string, 0, len(f.saved))
	for path := range f.saved {
		paths = append(paths, path)
	}
	return paths, nil
}

func TestBookingPublisher_Publish(t *testing.T) {
	service := newFakeCollectionService()
	hub := NewHub(slog.Default())
	publisher := NewBookingPublisher(service, hub, slog.Default())

	bookings := []booking.Booking{
		{ID: "b1", UserID: "1", TrainerID: "t1", Date: "2024-06-01", TimeSlot: "10:00 - 11:00", Status: booking.StatusApproved},
	}

	publisher.Publish(context.Background(), bookings)

	payload, ok := service.saved[booking.CollectionPath]
	require.True(t, ok, "снимок должен быть сохранен в коллекции")

	var stored []booking.Booking
	require.NoError(t, json.Unmarshal(payload, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "b1", stored[0].ID)
	assert.Equal(t, booking.StatusApproved, stored[0].Status)
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(slog.Default())
	conn := &wsConn{}

	hub.subscribe("bookings", conn)
	hub.subscribe("bookings", conn) // повторная подписка не дублируется
	assert.Len(t, hub.subscribers["bookings"], 1)

	hub.unsubscribe("bookings", conn)
	assert.Empty(t, hub.subscribers["bookings"])
}

func TestHub_DropRemovesFromAllCollections(t *testing.T) {
	hub := NewHub(slog.Default())
	conn := &wsConn{}

	hub.subscribe("bookings", conn)
	hub.subscribe("settings", conn)

	hub.drop(conn)

	assert.Empty(t, hub.subscribers["bookings"])
	assert.Empty(t, hub.subscribers["settings"])
}
