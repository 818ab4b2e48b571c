package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InterviewScheduled = "scheduled"
	InterviewCompleted = "completed"
	InterviewCancelled = "cancelled"
)

type Interview struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	MemberID    uuid.UUID
	LeaderID    uuid.UUID
	ScheduledAt time.Time
	Purpose     string
	Status      string
}
