package models

import (
	"time"

	"github.com/google/uuid"
)

// Calling lifecycle statuses, in the order they normally happen
const (
	CallingProposed  = "proposed"
	CallingSustained = "sustained"
	CallingSetApart  = "set_apart"
	CallingReleased  = "released"
)

// Calling is an assignment a member holds in the ward
type Calling struct {
	ID           uuid.UUID
	MemberID     uuid.UUID
	Organization string
	Title        string
	Status       string
	CreatedAt    time.Time
	ReleasedAt   *time.Time // nil while the calling is active
}
