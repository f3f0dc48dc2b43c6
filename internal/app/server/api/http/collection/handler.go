package collection

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"gymsync/internal/app/server/realtime"
	"gymsync/internal/domain/collection"
)

type Handler struct {
	service    collection.Servicer
	hub        *realtime.Hub
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service collection.Servicer, hub *realtime.Hub, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		hub:        hub,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.saveOp(), h.save)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	paths, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{
			Status: "Ok",
			Paths:  paths,
		},
	}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	snapshot, err := h.service.Get(ctx, input.Path)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &getOutput{
		Body: snapshotResponse{
			Status:    "Ok",
			Path:      snapshot.Path,
			Payload:   snapshot.Payload,
			UpdatedAt: snapshot.UpdatedAt,
		},
	}, nil
}

func (h *Handler) save(ctx context.Context, input *saveInput) (*saveOutput, error) {
	snapshot, err := h.service.Save(ctx, input.Path, input.Body.Payload)
	if err != nil {
		return nil, h.mapError(err)
	}

	// Запись через REST видна и подписчикам websocket-канала.
	if h.hub != nil {
		h.hub.Broadcast(snapshot.Path, snapshot.Payload)
	}

	return &saveOutput{
		Body: snapshotResponse{
			Status:    "Ok",
			Path:      snapshot.Path,
			Payload:   snapshot.Payload,
			UpdatedAt: snapshot.UpdatedAt,
		},
	}, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, collection.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, collection.ErrInvalidPath):
		return huma.Error400BadRequest(err.Error())
	default:
		return err
	}
}
