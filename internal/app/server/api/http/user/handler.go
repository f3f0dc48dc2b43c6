package user

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"gymsync/internal/domain/session"
	"gymsync/internal/domain/user"
)

type Handler struct {
	service    user.Servicer
	sessions   session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service user.Servicer, sessions session.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		sessions:   sessions,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	userID, err := h.service.Register(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidInput) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if errors.Is(err, user.ErrLoginTaken) {
			return nil, huma.Error409Conflict(err.Error())
		}
		return nil, err
	}

	return &registerOutput{
		Body: RegisterResponse{
			ID:     userID,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		return nil, huma.Error401Unauthorized("неверный логин или пароль")
	}

	token, err := h.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &loginOutput{
		Body: LoginResponse{
			Token:  token,
			ID:     u.ID,
			Role:   u.Role,
			Status: "Ok",
		},
	}, nil
}
