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

type interviewService interface {
	Schedule(ctx context.Context, memberID uuid.UUID, leaderID uuid.UUID, at time.Time, purpose string) (models.Interview, error)
	Get(ctx context.Context, id uuid.UUID) (models.Interview, error)
	ListUpcoming(ctx context.Context, leaderID *uuid.UUID) ([]models.Interview, error)
	Complete(ctx context.Context, id uuid.UUID) (models.Interview, error)
	Cancel(ctx context.Context, id uuid.UUID) (models.Interview, error)
}

type InterviewHandler struct {
	interviewService interviewService
}

func NewInterviews(interviewService interviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

type InterviewResponse struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"memberId"`
	LeaderID    uuid.UUID `json:"leaderId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Purpose     string    `json:"purpose"`
	Status      string    `json:"status"`
}

func toInterviewResponse(i models.Interview) InterviewResponse {
	return InterviewResponse{
		ID:          i.ID,
		MemberID:    i.MemberID,
		LeaderID:    i.LeaderID,
		ScheduledAt: i.ScheduledAt,
		Purpose:     i.Purpose,
		Status:      i.Status,
	}
}

func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	type CreateRequest struct {
		MemberID    uuid.UUID `json:"memberId" validate:"required"`
		ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
		Purpose     string    `json:"purpose" validate:"max=200"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[CreateRequest](w, r)
	if err != nil {
		return
	}

	interview, err := h.interviewService.Schedule(r.Context(), data.MemberID, user.ID, data.ScheduledAt, data.Purpose)
	switch {
	case err == nil:
		render.JSONWithStatus(w, toInterviewResponse(interview), http.StatusCreated)
	case errors.Is(err, apperrors.ErrMemberNotFound):
		render.ServiceError(w, "Member not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	var leaderID *uuid.UUID
	if raw := r.URL.Query().Get("leaderId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			render.ServiceError(w, "Invalid leader id", http.StatusBadRequest)
			return
		}
		leaderID = &id
	}

	interviews, err := h.interviewService.ListUpcoming(r.Context(), leaderID)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]InterviewResponse, 0, len(interviews))
	for _, i := range interviews {
		responses = append(responses, toInterviewResponse(i))
	}

	render.JSON(w, responses)
}

func (h *InterviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.interviewService.Complete)
}

func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.interviewService.Cancel)
}

func (h *InterviewHandler) setStatus(w http.ResponseWriter, r *http.Request, change func(context.Context, uuid.UUID) (models.Interview, error)) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid interview id", http.StatusBadRequest)
		return
	}

	interview, err := change(r.Context(), id)
	switch {
	case err == nil:
		render.JSON(w, toInterviewResponse(interview))
	case errors.Is(err, apperrors.ErrInterviewNotFound):
		render.ServiceError(w, "Interview not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
