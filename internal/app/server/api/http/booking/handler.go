package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"gymsync/internal/app/server/api/http/middleware/auth"
	"gymsync/internal/domain/booking"
	"gymsync/internal/domain/user"
)

type Handler struct {
	service    booking.Servicer
	users      user.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service booking.Servicer, users user.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		users:      users,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.classifyOp(), h.classify)
	huma.Register(api, h.approveOp(), h.approve)
	huma.Register(api, h.rejectOp(), h.reject)
	huma.Register(api, h.rateOp(), h.rate)
	huma.Register(api, h.slotsOp(), h.slots)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	bookings, err := h.service.List(ctx, booking.Filter{
		UserID:    input.UserID,
		TrainerID: input.TrainerID,
		Date:      input.Date,
		Status:    booking.Status(input.Status),
	})
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{
			Status:   "Ok",
			Bookings: bookings,
		},
	}, nil
}

func (h *Handler) classify(ctx context.Context, input *classifyInput) (*classifyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	state, err := h.service.Classify(ctx, input.TrainerID, input.Date, input.TimeSlot, strconv.Itoa(userID))
	if err != nil {
		return nil, err
	}

	return &classifyOutput{
		Body: classifyResponse{
			Status: "Ok",
			State:  state,
		},
	}, nil
}

func (h *Handler) approve(ctx context.Context, input *idInput) (*decisionOutput, error) {
	if err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}

	b, conflicts, err := h.service.Approve(ctx, input.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &decisionOutput{
		Body: decisionResponse{
			Status:    "Ok",
			Booking:   b,
			Conflicts: conflicts,
		},
	}, nil
}

func (h *Handler) reject(ctx context.Context, input *idInput) (*decisionOutput, error) {
	if err := h.requireAdmin(ctx); err != nil {
		return nil, err
	}

	b, err := h.service.Reject(ctx, input.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &decisionOutput{
		Body: decisionResponse{
			Status:  "Ok",
			Booking: b,
		},
	}, nil
}

func (h *Handler) rate(ctx context.Context, input *rateInput) (*decisionOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	found, err := h.service.List(ctx, booking.Filter{UserID: strconv.Itoa(userID)})
	if err != nil {
		return nil, err
	}

	// Оценивать можно только собственную тренировку.
	var owned bool
	for _, b := range found {
		if b.ID == input.ID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, huma.Error404NotFound(booking.ErrNotFound.Error())
	}

	b, err := h.service.Rate(ctx, input.ID, input.Body.Rating, time.Now())
	if err != nil {
		return nil, h.mapError(err)
	}

	return &decisionOutput{
		Body: decisionResponse{
			Status:  "Ok",
			Booking: b,
		},
	}, nil
}

func (h *Handler) slots(_ context.Context, input *slotsInput) (*slotsOutput, error) {
	start := input.StartHour
	if start <= 0 {
		start = booking.DefaultStartHour
	}
	count := input.Count
	if count <= 0 {
		count = booking.DefaultSlotCount
	}

	return &slotsOutput{
		Body: slotsResponse{
			Status: "Ok",
			Slots:  booking.GenerateDailySlots(start, count),
		},
	}, nil
}

func (h *Handler) requireAdmin(ctx context.Context) error {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return huma.Error401Unauthorized("Unauthorized")
	}

	admin, err := h.users.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return huma.Error403Forbidden(user.ErrForbidden.Error())
	}

	return nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, booking.ErrNotRateable):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, booking.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	default:
		return err
	}
}
