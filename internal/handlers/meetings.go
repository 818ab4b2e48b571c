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

type meetingService interface {
	Create(ctx context.Context, meeting models.Meeting) (models.Meeting, error)
	Get(ctx context.Context, id uuid.UUID) (models.Meeting, error)
	List(ctx context.Context) ([]models.Meeting, error)
	Update(ctx context.Context, meeting models.Meeting) (models.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MeetingHandler struct {
	meetingService meetingService
}

func NewMeeting(meetingService meetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

type MeetingRequest struct {
	Type         string     `json:"type" validate:"required,oneof=sacrament ward_council bishopric other"`
	HeldAt       time.Time  `json:"heldAt" validate:"required"`
	PresidingID  *uuid.UUID `json:"presidingId"`
	ConductingID *uuid.UUID `json:"conductingId"`
	Agenda       string     `json:"agenda" validate:"max=10000"`
}

type MeetingResponse struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	HeldAt       time.Time  `json:"heldAt"`
	PresidingID  *uuid.UUID `json:"presidingId,omitempty"`
	ConductingID *uuid.UUID `json:"conductingId,omitempty"`
	Agenda       string     `json:"agenda"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toMeetingResponse(m models.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:           m.ID,
		Type:         m.Type,
		HeldAt:       m.HeldAt,
		PresidingID:  m.PresidingID,
		ConductingID: m.ConductingID,
		Agenda:       m.Agenda,
		CreatedAt:    m.CreatedAt,
	}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	data, err := render.BindAndValidate[MeetingRequest](w, r)
	if err != nil {
		return
	}

	meeting, err := h.meetingService.Create(r.Context(), models.Meeting{
		Type:         data.Type,
		HeldAt:       data.HeldAt,
		PresidingID:  data.PresidingID,
		ConductingID: data.ConductingID,
		Agenda:       data.Agenda,
	})
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, toMeetingResponse(meeting), http.StatusCreated)
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid meeting id", http.StatusBadRequest)
		return
	}

	meeting, err := h.meetingService.Get(r.Context(), id)
	switch {
	case err == nil:
		render.JSON(w, toMeetingResponse(meeting))
	case errors.Is(err, apperrors.ErrMeetingNotFound):
		render.ServiceError(w, "Meeting not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.meetingService.List(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		responses = append(responses, toMeetingResponse(m))
	}

	render.JSON(w, responses)
}

func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid meeting id", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[MeetingRequest](w, r)
	if err != nil {
		return
	}

	meeting, err := h.meetingService.Update(r.Context(), models.Meeting{
		ID:           id,
		Type:         data.Type,
		HeldAt:       data.HeldAt,
		PresidingID:  data.PresidingID,
		ConductingID: data.ConductingID,
		Agenda:       data.Agenda,
	})
	switch {
	case err == nil:
		render.JSON(w, toMeetingResponse(meeting))
	case errors.Is(err, apperrors.ErrMeetingNotFound):
		render.ServiceError(w, "Meeting not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid meeting id", http.StatusBadRequest)
		return
	}

	err = h.meetingService.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperrors.ErrMeetingNotFound):
		render.ServiceError(w, "Meeting not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
