package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Activity struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	Name          string
	Location      string
	HeldAt        time.Time
	OrganizerID   *uuid.UUID
	CategoryID    *uuid.UUID // budget category the activity draws from
	EstimatedCost decimal.Decimal
}
