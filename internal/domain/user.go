package domain

import "time"

// Role access role of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User an account of the booking platform
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccess owner or admin
func (u *User) CanAccess(b *Booking) bool {
	return u.IsAdmin() || b.UserID == u.ID
}
