package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"gymsync/internal/domain/booking"
)

// BookingRepository — хранилище записей на тренировки в PostgreSQL.
// Таблица наполняется проекцией снимков коллекции "bookings" и решениями
// администратора.
type BookingRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewBookingRepository(db *Storage, log *slog.Logger) *BookingRepository {
	return &BookingRepository{
		db:  db,
		log: log,
	}
}

func (r *BookingRepository) Upsert(ctx context.Context, b booking.Booking) error {
	_, err := r.db.Pool().Exec(ctx, `
		INSERT INTO bookings (id, user_id, trainer_id, date, time_slot, status, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			trainer_id = EXCLUDED.trainer_id,
			date = EXCLUDED.date,
			time_slot = EXCLUDED.time_slot,
			status = EXCLUDED.status,
			rating = EXCLUDED.rating
	`, b.ID, b.UserID, b.TrainerID, b.Date, b.TimeSlot, string(b.Status), b.Rating, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert записи: %w", err)
	}

	return nil
}

func (r *BookingRepository) Find(ctx context.Context, id string) (booking.Booking, error) {
	var b booking.Booking
	var status string

	err := r.db.Pool().QueryRow(ctx, `
		SELECT id, user_id, trainer_id, date, time_slot, status, rating, created_at
		FROM bookings
		WHERE id = $1
	`, id).Scan(&b.ID, &b.UserID, &b.TrainerID, &b.Date, &b.TimeSlot, &status, &b.Rating, &b.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return booking.Booking{}, booking.ErrNotFound
	}
	if err != nil {
		return booking.Booking{}, fmt.Errorf("чтение записи: %w", err)
	}

	b.Status = booking.Status(status)
	return b, nil
}

func (r *BookingRepository) List(ctx context.Context, filter booking.Filter) ([]booking.Booking, error) {
	query := `
		SELECT id, user_id, trainer_id, date, time_slot, status, rating, created_at
		FROM bookings
	`
	var conditions []string
	var args []interface{}

	addCondition := func(column, value string) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.UserID != "" {
		addCondition("user_id", filter.UserID)
	}
	if filter.TrainerID != "" {
		addCondition("trainer_id", filter.TrainerID)
	}
	if filter.Date != "" {
		addCondition("date", filter.Date)
	}
	if filter.Status != "" {
		addCondition("status", string(filter.Status))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, time_slot, created_at"

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("выборка записей: %w", err)
	}
	defer rows.Close()

	var bookings []booking.Booking
	for rows.Next() {
		var b booking.Booking
		var status string

		if err := rows.Scan(&b.ID, &b.UserID, &b.TrainerID, &b.Date, &b.TimeSlot,
			&status, &b.Rating, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("сканирование записи: %w", err)
		}

		b.Status = booking.Status(status)
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status booking.Status, rating int) error {
	tag, err := r.db.Pool().Exec(ctx, `
		UPDATE bookings SET status = $2, rating = $3 WHERE id = $1
	`, id, string(status), rating)
	if err != nil {
		return fmt.Errorf("обновление статуса: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}

	return nil
}
