package models

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID        uuid.UUID
	CreatedAt time.Time
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	Birthdate *time.Time
	Household string
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
