package booking

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

const (
	minRating = 1
	maxRating = 5
)

// Servicer — серверный сервис записей на тренировки: админские решения по
// заявкам, оценка прошедших тренировок и проекция снимков коллекции
// "bookings", приходящих от клиентов через слой синхронизации.
type Servicer interface {
	List(ctx context.Context, filter Filter) ([]Booking, error)
	Classify(ctx context.Context, trainerID, date, timeSlot, userID string) (SlotState, error)

	// Approve подтверждает заявку и возвращает остальные живые заявки
	// того же слота — администратор видит конфликт в момент решения и
	// разводит его вручную, автоматического отклонения нет.
	Approve(ctx context.Context, id string) (Booking, []Booking, error)
	Reject(ctx context.Context, id string) (Booking, error)
	Rate(ctx context.Context, id string, rating int, now time.Time) (Booking, error)

	// ReplaceAll применяет полный снимок коллекции записей от клиента.
	ReplaceAll(ctx context.Context, bookings []Booking) error
	Snapshot(ctx context.Context) ([]Booking, error)
}

// Publisher публикует пересобранный снимок коллекции записей после
// серверных изменений, чтобы клиенты получили их через подписку.
type Publisher interface {
	Publish(ctx context.Context, bookings []Booking)
}

type Service struct {
	repo      Repository
	log       *slog.Logger
	publisher Publisher
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// SetPublisher подключает публикацию снимков. Вызывается на этапе сборки
// сервера, до начала обработки запросов.
func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Booking, error) {
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("выборка записей: %w", err)
	}
	return bookings, nil
}

func (s *Service) Classify(ctx context.Context, trainerID, date, timeSlot, userID string) (SlotState, error) {
	bookings, err := s.repo.List(ctx, Filter{TrainerID: trainerID, Date: date})
	if err != nil {
		return SlotFree, fmt.Errorf("выборка записей слота: %w", err)
	}

	return ClassifySlot(bookings, trainerID, date, timeSlot, userID), nil
}

func (s *Service) Approve(ctx context.Context, id string) (Booking, []Booking, error) {
	b, err := s.repo.Find(ctx, id)
	if err != nil {
		return Booking{}, nil, err
	}

	if b.Status != StatusPending {
		return Booking{}, nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, b.Status, StatusApproved)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusApproved, 0); err != nil {
		return Booking{}, nil, fmt.Errorf("подтверждение записи: %w", err)
	}
	b.Status = StatusApproved

	// Остальные живые заявки слота — видимый администратору конфликт.
	slotBookings, err := s.repo.List(ctx, Filter{TrainerID: b.TrainerID, Date: b.Date})
	if err != nil {
		return b, nil, fmt.Errorf("выборка заявок слота: %w", err)
	}

	var contenders []Booking
	for _, other := range slotBookings {
		if other.ID != b.ID && other.TimeSlot == b.TimeSlot && other.Active() {
			contenders = append(contenders, other)
		}
	}

	s.log.Info("Запись подтверждена",
		"booking_id", id,
		"trainer_id", b.TrainerID,
		"slot", b.TimeSlot,
		"contenders", len(contenders))

	s.republish(ctx)
	return b, contenders, nil
}

func (s *Service) Reject(ctx context.Context, id string) (Booking, error) {
	b, err := s.repo.Find(ctx, id)
	if err != nil {
		return Booking{}, err
	}

	if b.Status != StatusPending {
		return Booking{}, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, b.Status, StatusRejected)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusRejected, 0); err != nil {
		return Booking{}, fmt.Errorf("отклонение записи: %w", err)
	}
	b.Status = StatusRejected

	s.log.Info("Запись отклонена", "booking_id", id)

	s.republish(ctx)
	return b, nil
}

func (s *Service) Rate(ctx context.Context, id string, rating int, now time.Time) (Booking, error) {
	if rating < minRating || rating > maxRating {
		return Booking{}, fmt.Errorf("%w: оценка от %d до %d", ErrInvalidInput, minRating, maxRating)
	}

	b, err := s.repo.Find(ctx, id)
	if err != nil {
		return Booking{}, err
	}

	if !CanRate(b, now) {
		return Booking{}, ErrNotRateable
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted, rating); err != nil {
		return Booking{}, fmt.Errorf("завершение записи: %w", err)
	}
	b.Status = StatusCompleted
	b.Rating = rating

	s.log.Info("Тренировка оценена", "booking_id", id, "rating", rating)

	s.republish(ctx)
	return b, nil
}

// ReplaceAll применяет снимок коллекции от клиента: каждая запись
// вставляется или перезаписывается по ID. Снимок всегда полный, действует
// политика "последняя запись побеждает".
func (s *Service) ReplaceAll(ctx context.Context, bookings []Booking) error {
	for _, b := range bookings {
		if b.ID == "" {
			s.log.Warn("Запись без ID в снимке, пропущена",
				"user_id", b.UserID,
				"trainer_id", b.TrainerID)
			continue
		}

		if err := s.repo.Upsert(ctx, b); err != nil {
			return fmt.Errorf("применение записи %s: %w", b.ID, err)
		}
	}

	return nil
}

func (s *Service) Snapshot(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx, Filter{})
}

// republish пересобирает и публикует снимок коллекции после серверного
// изменения. Неудача публикации не отменяет изменение: клиенты получат
// актуальное состояние при следующей синхронизации.
func (s *Service) republish(ctx context.Context) {
	if s.publisher == nil {
		return
	}

	bookings, err := s.Snapshot(ctx)
	if err != nil {
		s.log.Warn("Не удалось собрать снимок записей", "error", err)
		return
	}

	s.publisher.Publish(ctx, bookings)
}
