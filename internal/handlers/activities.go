package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/handlers/render"
	"github.com/jhansen/wardbook/internal/models"
)

type activityService interface {
	Create(ctx context.Context, activity models.Activity) (models.Activity, error)
	Get(ctx context.Context, id uuid.UUID) (models.Activity, error)
	List(ctx context.Context) ([]models.Activity, error)
	Update(ctx context.Context, activity models.Activity) (models.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ActivityHandler struct {
	activityService activityService
}

func NewActivities(activityService activityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

type ActivityRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Location      string          `json:"location" validate:"max=200"`
	HeldAt        time.Time       `json:"heldAt" validate:"required"`
	OrganizerID   *uuid.UUID      `json:"organizerId"`
	CategoryID    *uuid.UUID      `json:"categoryId"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
}

type ActivityResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	HeldAt        time.Time       `json:"heldAt"`
	OrganizerID   *uuid.UUID      `json:"organizerId,omitempty"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
}

func toActivityResponse(a models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:            a.ID,
		Name:          a.Name,
		Location:      a.Location,
		HeldAt:        a.HeldAt,
		OrganizerID:   a.OrganizerID,
		CategoryID:    a.CategoryID,
		EstimatedCost: a.EstimatedCost,
	}
}

func (req ActivityRequest) toModel() models.Activity {
	return models.Activity{
		Name:          req.Name,
		Location:      req.Location,
		HeldAt:        req.HeldAt,
		OrganizerID:   req.OrganizerID,
		CategoryID:    req.CategoryID,
		EstimatedCost: req.EstimatedCost,
	}
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	data, err := render.BindAndValidate[ActivityRequest](w, r)
	if err != nil {
		return
	}

	activity, err := h.activityService.Create(r.Context(), data.toModel())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, toActivityResponse(activity), http.StatusCreated)
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid activity id", http.StatusBadRequest)
		return
	}

	activity, err := h.activityService.Get(r.Context(), id)
	switch {
	case err == nil:
		render.JSON(w, toActivityResponse(activity))
	case errors.Is(err, apperrors.ErrActivityNotFound):
		render.ServiceError(w, "Activity not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.List(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		responses = append(responses, toActivityResponse(a))
	}

	render.JSON(w, responses)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid activity id", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[ActivityRequest](w, r)
	if err != nil {
		return
	}

	activity := data.toModel()
	activity.ID = id

	updated, err := h.activityService.Update(r.Context(), activity)
	switch {
	case err == nil:
		render.JSON(w, toActivityResponse(updated))
	case errors.Is(err, apperrors.ErrActivityNotFound):
		render.ServiceError(w, "Activity not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid activity id", http.StatusBadRequest)
		return
	}

	err = h.activityService.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperrors.ErrActivityNotFound):
		render.ServiceError(w, "Activity not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
