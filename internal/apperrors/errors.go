package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrLoginCodeNotFound   = errors.New("login code not found")
	ErrLoginCodeExpired    = errors.New("login code is expired")
	ErrLoginCodeMismatch   = errors.New("login code does not match")
	ErrLoginCodeNoAttempts = errors.New("login code attempts exhausted")

	ErrMemberNotFound = errors.New("member not found")

	ErrCallingNotFound = errors.New("calling not found")
	ErrCallingReleased = errors.New("calling already released")

	ErrMeetingNotFound = errors.New("meeting not found")

	ErrBudgetCategoryNotFound = errors.New("budget category not found")
	ErrBudgetCategoryTaken    = errors.New("budget category already exists for fiscal year")
	ErrExpenseNotFound        = errors.New("expense not found")
	ErrExpenseNotSubmitted    = errors.New("expense is not in submitted state")

	ErrInterviewNotFound = errors.New("interview not found")
	ErrActivityNotFound  = errors.New("activity not found")
)
