package booking

import (
	"gymsync/internal/domain/booking"
)

type listInput struct {
	UserID    string `query:"user_id" doc:"Фильтр по пользователю"`
	TrainerID string `query:"trainer_id" doc:"Фильтр по тренеру"`
	Date      string `query:"date" example:"2024-01-01" doc:"Фильтр по дню"`
	Status    string `query:"status" doc:"Фильтр по статусу"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Status   string            `json:"status"`
	Bookings []booking.Booking `json:"bookings"`
}

type classifyInput struct {
	TrainerID string `query:"trainer_id" required:"true" doc:"Тренер"`
	Date      string `query:"date" required:"true" example:"2024-01-01" doc:"День"`
	TimeSlot  string `query:"time_slot" required:"true" example:"10:00 - 11:00" doc:"Слот"`
}

type classifyOutput struct {
	Body classifyResponse
}

type classifyResponse struct {
	Status string            `json:"status"`
	State  booking.SlotState `json:"state"`
}

type idInput struct {
	ID string `path:"id" doc:"ID записи"`
}

type decisionOutput struct {
	Body decisionResponse
}

type decisionResponse struct {
	Status  string            `json:"status"`
	Booking booking.Booking   `json:"booking"`
	// Conflicts — остальные живые заявки того же слота, которые
	// администратору предстоит развести вручную.
	Conflicts []booking.Booking `json:"conflicts,omitempty"`
}

type rateInput struct {
	ID   string `path:"id" doc:"ID записи"`
	Body rateRequest
}

type rateRequest struct {
	Rating int `json:"rating" minimum:"1" maximum:"5" doc:"Оценка тренировки"`
}

type slotsInput struct {
	StartHour int `query:"start_hour" default:"6" doc:"Час начала окна"`
	Count     int `query:"count" default:"15" doc:"Число слотов"`
}

type slotsOutput struct {
	Body slotsResponse
}

type slotsResponse struct {
	Status string   `json:"status"`
	Slots  []string `json:"slots"`
}
