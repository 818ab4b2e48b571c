package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/handlers/render"
	"github.com/jhansen/wardbook/internal/models"
)

type callingService interface {
	Propose(ctx context.Context, memberID uuid.UUID, organization string, title string) (models.Calling, error)
	Get(ctx context.Context, id uuid.UUID) (models.Calling, error)
	List(ctx context.Context, memberID *uuid.UUID) ([]models.Calling, error)
	Advance(ctx context.Context, id uuid.UUID, status string) (models.Calling, error)
}

type CallingHandler struct {
	callingService callingService
}

func NewCalling(callingService callingService) *CallingHandler {
	return &CallingHandler{callingService: callingService}
}

type CallingResponse struct {
	ID           uuid.UUID  `json:"id"`
	MemberID     uuid.UUID  `json:"memberId"`
	Organization string     `json:"organization"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ReleasedAt   *time.Time `json:"releasedAt,omitempty"`
}

func toCallingResponse(c models.Calling) CallingResponse {
	return CallingResponse{
		ID:           c.ID,
		MemberID:     c.MemberID,
		Organization: c.Organization,
		Title:        c.Title,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		ReleasedAt:   c.ReleasedAt,
	}
}

func (h *CallingHandler) Create(w http.ResponseWriter, r *http.Request) {
	type CreateRequest struct {
		MemberID     uuid.UUID `json:"memberId" validate:"required"`
		Organization string    `json:"organization" validate:"required,max=100"`
		Title        string    `json:"title" validate:"required,max=100"`
	}

	data, err := render.BindAndValidate[CreateRequest](w, r)
	if err != nil {
		return
	}

	calling, err := h.callingService.Propose(r.Context(), data.MemberID, data.Organization, data.Title)
	switch {
	case err == nil:
		render.JSONWithStatus(w, toCallingResponse(calling), http.StatusCreated)
	case errors.Is(err, apperrors.ErrMemberNotFound):
		render.ServiceError(w, "Member not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *CallingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid calling id", http.StatusBadRequest)
		return
	}

	calling, err := h.callingService.Get(r.Context(), id)
	switch {
	case err == nil:
		render.JSON(w, toCallingResponse(calling))
	case errors.Is(err, apperrors.ErrCallingNotFound):
		render.ServiceError(w, "Calling not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *CallingHandler) List(w http.ResponseWriter, r *http.Request) {
	var memberID *uuid.UUID
	if raw := r.URL.Query().Get("memberId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			render.ServiceError(w, "Invalid member id", http.StatusBadRequest)
			return
		}
		memberID = &id
	}

	callings, err := h.callingService.List(r.Context(), memberID)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]CallingResponse, 0, len(callings))
	for _, c := range callings {
		responses = append(responses, toCallingResponse(c))
	}

	render.JSON(w, responses)
}

func (h *CallingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	type StatusRequest struct {
		Status string `json:"status" validate:"required,oneof=sustained set_apart released"`
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid calling id", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[StatusRequest](w, r)
	if err != nil {
		return
	}

	calling, err := h.callingService.Advance(r.Context(), id, data.Status)
	switch {
	case err == nil:
		render.JSON(w, toCallingResponse(calling))
	case errors.Is(err, apperrors.ErrCallingNotFound):
		render.ServiceError(w, "Calling not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrCallingReleased):
		render.ServiceError(w, "Calling already released", http.StatusConflict)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
