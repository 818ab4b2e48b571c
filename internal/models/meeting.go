package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MeetingSacrament   = "sacrament"
	MeetingWardCouncil = "ward_council"
	MeetingBishopric   = "bishopric"
	MeetingOther       = "other"
)

type Meeting struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Type         string
	HeldAt       time.Time
	PresidingID  *uuid.UUID
	ConductingID *uuid.UUID
	Agenda       string
}
