package booking

import (
	"context"
	"encoding/json"
	"fmt"
)

// SnapshotProjector разворачивает снимок коллекции "bookings", пришедший
// от клиента через слой синхронизации, в таблицу записей — админка и
// классификация слотов работают по ней, а не по сырому JSON.
type SnapshotProjector struct {
	service Servicer
}

func NewSnapshotProjector(service Servicer) *SnapshotProjector {
	return &SnapshotProjector{service: service}
}

func (p *SnapshotProjector) Apply(ctx context.Context, payload json.RawMessage) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}

	var bookings []Booking
	if err := json.Unmarshal(payload, &bookings); err != nil {
		return fmt.Errorf("разбор снимка записей: %w", err)
	}

	return p.service.ReplaceAll(ctx, bookings)
}
