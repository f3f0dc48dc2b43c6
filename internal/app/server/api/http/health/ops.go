package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) pingOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-ping",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Проверка живости",
		Description: "Отвечает OK, если сервер принимает запросы",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
