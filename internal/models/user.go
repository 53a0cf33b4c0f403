package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values a user account can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether s is one of the allowed role values.
func ValidRole(s string) bool {
	return s == string(RoleUser) || s == string(RoleAdmin)
}

// Status values a user account can hold. A suspended account keeps its data
// but is rejected at login until reactivated.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s string) bool {
	return s == string(StatusActive) || s == string(StatusSuspended)
}

type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"userName"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Role           Role      `json:"role"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
