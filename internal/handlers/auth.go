package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/handlers/render"
	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/service/auth"
)

type authService interface {
	Login(ctx context.Context, username string, password string, deviceID string) (auth.LoginResult, error)
	VerifyCode(ctx context.Context, otpID uuid.UUID, code string, rememberDevice bool, deviceID string) (auth.LoginResult, error)
	Refresh(ctx context.Context, refresh string) (models.TokenPair, models.User, error)
	Logout(ctx context.Context, refresh string) error
	Authenticate(ctx context.Context, r *http.Request) (models.User, error)

	SetRefreshCookie(w http.ResponseWriter, refresh models.IssuedToken)
	ClearRefreshCookie(w http.ResponseWriter)
	ReadRefreshToken(r *http.Request) (string, error)
}

type AuthHandler struct {
	authService authService
}

// UserResponse is the public projection of a user account
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func NewAuth(auth authService) *AuthHandler {
	return &AuthHandler{authService: auth}
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Username       string `json:"username" validate:"required"`
		Password       string `json:"password" validate:"required"`
		RememberDevice bool   `json:"rememberDevice"`
		DeviceID       string `json:"deviceId"`
	}
	type LoginResponse struct {
		AccessToken       string        `json:"accessToken,omitempty"`
		User              *UserResponse `json:"user,omitempty"`
		RequiresEmailCode bool          `json:"requiresEmailCode,omitempty"`
		OTPID             string        `json:"otpId,omitempty"`
		Email             string        `json:"email,omitempty"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	result, err := h.authService.Login(r.Context(), data.Username, data.Password, data.DeviceID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	if result.RequiresEmailCode {
		render.JSON(w, LoginResponse{
			RequiresEmailCode: true,
			OTPID:             result.OTPID.String(),
			Email:             result.Email,
		})
		return
	}

	h.authService.SetRefreshCookie(w, result.Pair.Refresh)
	user := toUserResponse(result.User)
	render.JSON(w, LoginResponse{AccessToken: result.Pair.Access.Value, User: &user})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	type VerifyRequest struct {
		OTPID          uuid.UUID `json:"otpId" validate:"required"`
		Code           string    `json:"code" validate:"required,len=6"`
		RememberDevice bool      `json:"rememberDevice"`
		DeviceID       string    `json:"deviceId"`
	}
	type VerifyResponse struct {
		AccessToken string        `json:"accessToken"`
		User        *UserResponse `json:"user"`
	}

	data, err := render.BindAndValidate[VerifyRequest](w, r)
	if err != nil {
		return
	}

	result, err := h.authService.VerifyCode(r.Context(), data.OTPID, data.Code, data.RememberDevice, data.DeviceID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLoginCodeExpired):
			render.ServiceError(w, "Code expired, sign in again", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrLoginCodeNoAttempts):
			render.ServiceError(w, "Too many attempts, sign in again", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrLoginCodeMismatch),
			errors.Is(err, apperrors.ErrLoginCodeNotFound):
			render.ServiceError(w, "Invalid code", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.authService.SetRefreshCookie(w, result.Pair.Refresh)
	user := toUserResponse(result.User)
	render.JSON(w, VerifyResponse{AccessToken: result.Pair.Access.Value, User: &user})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshResponse struct {
		AccessToken string `json:"accessToken"`
	}

	refresh, err := h.authService.ReadRefreshToken(r)
	if err != nil {
		render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
		return
	}

	pair, _, err := h.authService.Refresh(r.Context(), refresh)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenExpired):
			render.ServiceError(w, "Refresh token expired", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrRefreshTokenIsUsed),
			errors.Is(err, apperrors.ErrRefreshTokenNotFound),
			errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.authService.SetRefreshCookie(w, pair.Refresh)
	render.JSON(w, RefreshResponse{AccessToken: pair.Access.Value})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refresh, err := h.authService.ReadRefreshToken(r)
	if err == nil {
		if err := h.authService.Logout(r.Context(), refresh); err != nil {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	h.authService.ClearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	render.JSON(w, toUserResponse(user))
}
