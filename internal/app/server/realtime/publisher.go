package realtime

import (
	"context"
	"encoding/json"

	"golang.org/x/exp/slog"

	"gymsync/internal/domain/booking"
	"gymsync/internal/domain/collection"
)

// BookingPublisher доводит серверные изменения записей (решения
// администратора, оценки) до клиентов: пересобранный снимок сохраняется
// как коллекция "bookings" и рассылается подписчикам.
type BookingPublisher struct {
	service collection.Servicer
	hub     *Hub
	log     *slog.Logger
}

func NewBookingPublisher(service collection.Servicer, hub *Hub, log *slog.Logger) *BookingPublisher {
	return &BookingPublisher{
		service: service,
		hub:     hub,
		log:     log,
	}
}

func (p *BookingPublisher) Publish(ctx context.Context, bookings []booking.Booking) {
	payload, err := json.Marshal(bookings)
	if err != nil {
		p.log.Error("Ошибка сериализации снимка записей", "error", err)
		return
	}

	if _, err := p.service.Save(ctx, booking.CollectionPath, payload); err != nil {
		p.log.Warn("Не удалось сохранить снимок записей", "error", err)
		return
	}

	p.hub.Broadcast(booking.CollectionPath, payload)
}
