package booking

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookings-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings",
		Summary:     "Список записей на тренировки",
		Tags:        []string{"bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) classifyOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookings-classify",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings/classify",
		Summary:     "Классификация слота",
		Description: "Положение слота тренера относительно записей текущего пользователя: free, my_booking или conflict.",
		Tags:        []string{"bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) approveOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookings-approve",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/approve",
		Summary:     "Подтвердить заявку (админ)",
		Tags:        []string{"bookings", "admin"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) rejectOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookings-reject",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/reject",
		Summary:     "Отклонить заявку (админ)",
		Tags:        []string{"bookings", "admin"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) rateOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookings-rate",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/rate",
		Summary:     "Оценить прошедшую тренировку",
		Tags:        []string{"bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) slotsOp() huma.Operation {
	return huma.Operation{
		OperationID: "bookings-slots",
		Method:      http.MethodGet,
		Path:        "/api/v1/slots",
		Summary:     "Слоты рабочего дня",
		Tags:        []string{"bookings"},
		Middlewares: h.middleware,
	}
}
