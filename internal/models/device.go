package models

import (
	"time"

	"github.com/google/uuid"
)

// TrustedDevice is a browser the user chose to remember
// Logins from a trusted device skip the email code step
type TrustedDevice struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	DeviceID  string
	CreatedAt time.Time
	LastSeen  time.Time
}
