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

type memberService interface {
	Create(ctx context.Context, member models.Member) (models.Member, error)
	Get(ctx context.Context, id uuid.UUID) (models.Member, error)
	List(ctx context.Context, search string) ([]models.Member, error)
	Update(ctx context.Context, member models.Member) (models.Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberHandler struct {
	memberService memberService
}

func NewMember(memberService memberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

type MemberRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=30"`
	Address   string `json:"address" validate:"max=300"`
	Birthdate string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Household string `json:"household" validate:"max=100"`
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Birthdate string    `json:"birthdate,omitempty"`
	Household string    `json:"household"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r MemberRequest) toModel() models.Member {
	m := models.Member{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		Household: r.Household,
	}
	if r.Birthdate != "" {
		// Validated with the datetime tag already
		birthdate, _ := time.Parse(time.DateOnly, r.Birthdate)
		m.Birthdate = &birthdate
	}
	return m
}

func toMemberResponse(m models.Member) MemberResponse {
	resp := MemberResponse{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		Household: m.Household,
		CreatedAt: m.CreatedAt,
	}
	if m.Birthdate != nil {
		resp.Birthdate = m.Birthdate.Format(time.DateOnly)
	}
	return resp
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	data, err := render.BindAndValidate[MemberRequest](w, r)
	if err != nil {
		return
	}

	member, err := h.memberService.Create(r.Context(), data.toModel())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, toMemberResponse(member), http.StatusCreated)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid member id", http.StatusBadRequest)
		return
	}

	member, err := h.memberService.Get(r.Context(), id)
	switch {
	case err == nil:
		render.JSON(w, toMemberResponse(member))
	case errors.Is(err, apperrors.ErrMemberNotFound):
		render.ServiceError(w, "Member not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, toMemberResponse(m))
	}

	render.JSON(w, responses)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid member id", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[MemberRequest](w, r)
	if err != nil {
		return
	}

	m := data.toModel()
	m.ID = id

	member, err := h.memberService.Update(r.Context(), m)
	switch {
	case err == nil:
		render.JSON(w, toMemberResponse(member))
	case errors.Is(err, apperrors.ErrMemberNotFound):
		render.ServiceError(w, "Member not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid member id", http.StatusBadRequest)
		return
	}

	err = h.memberService.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperrors.ErrMemberNotFound):
		render.ServiceError(w, "Member not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
