package collection

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "collections-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "Список путей коллекций",
		Tags:        []string{"collections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "collections-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{path}",
		Summary:     "Текущий снимок коллекции",
		Tags:        []string{"collections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) saveOp() huma.Operation {
	return huma.Operation{
		OperationID: "collections-save",
		Method:      http.MethodPut,
		Path:        "/api/v1/collections/{path}",
		Summary:     "Записать снимок коллекции",
		Description: "Полная перезапись снимка, действует политика \"последняя запись побеждает\".",
		Tags:        []string{"collections"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
