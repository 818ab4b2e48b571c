package models

import (
	"time"

	"github.com/google/uuid"
)

// LoginCode is a short numeric code mailed to the user when login comes
// from a device that is not remembered
type LoginCode struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Code         string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	AttemptsLeft int
	UsedAt       *time.Time // nil if code not used
}
