package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a ward account may hold
// Role gates what parts of the dashboard the account may change
const (
	RoleAdmin  = "admin"
	RoleClerk  = "clerk"
	RoleLeader = "leader"
	RoleMember = "member"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Username       string
	Email          string
	Role           string
	HashedPassword string
}

// HasRole reports whether the user holds one of the given roles
// Admin passes every gate
func (u *User) HasRole(roles ...string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
