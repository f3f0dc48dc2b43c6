package booking

import "context"

// Filter — условия выборки записей. Пустое поле не участвует в фильтре.
type Filter struct {
	UserID    string
	TrainerID string
	Date      string
	Status    Status
}

// Repository — серверное хранилище записей на тренировки.
type Repository interface {
	// Upsert вставляет запись или обновляет существующую по ID.
	Upsert(ctx context.Context, b Booking) error

	// Find возвращает запись по ID.
	Find(ctx context.Context, id string) (Booking, error)

	// List возвращает записи по фильтру, отсортированные по дате и слоту.
	List(ctx context.Context, filter Filter) ([]Booking, error)

	// UpdateStatus меняет статус записи (и оценку для завершения).
	UpdateStatus(ctx context.Context, id string, status Status, rating int) error
}
