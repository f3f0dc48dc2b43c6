package booking

import "time"

// Status — статус записи на персональную тренировку.
type Status string

const (
	// StatusPending — запись создана клиентом и ждет решения администратора.
	StatusPending Status = "Pending"
	// StatusApproved — запись подтверждена администратором.
	StatusApproved Status = "Approved"
	// StatusCompleted — тренировка прошла и оценена клиентом.
	StatusCompleted Status = "Completed"
	// StatusRejected — запись отклонена администратором.
	StatusRejected Status = "Rejected"
)

// DateLayout — формат календарного дня записи.
const DateLayout = "2006-01-02"

// CollectionPath — путь коллекции записей в слое синхронизации.
const CollectionPath = "bookings"

// Booking — запись на персональную тренировку. Date — календарный день
// (YYYY-MM-DD), TimeSlot — строковая метка часового слота ("10:00 - 11:00").
// Слоты сравниваются только на равенство: по построению они не пересекаются
// частично, интервальная арифметика не нужна.
type Booking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TrainerID string    `json:"trainerId"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"timeSlot"`
	Status    Status    `json:"status"`
	Rating    int       `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Active сообщает, занимает ли запись слот: отклоненные и завершенные
// записи слот не держат.
func (b Booking) Active() bool {
	return b.Status != StatusRejected && b.Status != StatusCompleted
}
