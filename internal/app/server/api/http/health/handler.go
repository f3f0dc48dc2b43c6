package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// apiVersion совпадает с версией, объявленной в huma-конфиге.
const apiVersion = "1.0.0"

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pingOp(), h.ping)
}

func (h *Handler) ping(_ context.Context, _ *pingInput) (*pingOutput, error) {
	h.log.Debug("запрос проверки живости")

	return &pingOutput{
		Body: pingResponse{
			Status:  "OK",
			Version: apiVersion,
		},
	}, nil
}
