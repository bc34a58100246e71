package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level of a user profile.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserProfile maps an authenticated identity to a role and display
// metadata. Profiles are created lazily on first sign-in; the role is
// reconciled against the configured admin email on every authentication.
type UserProfile struct {
	ID             uuid.UUID
	Email          string
	DisplayName    string
	HashedPassword string
	Role           Role
	VerifiedEmail  bool
	CreatedAt      time.Time
	LastSeenAt     time.Time
}

// IsAdmin reports whether the profile carries the admin role.
func (u *UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}
