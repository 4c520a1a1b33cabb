package models

import (
	"gorm.io/gorm"
)

// Roles assigned to users. Staff and admins pay staff dues and may take
// jobs in staff-only categories.
const (
	RoleParticipant = "participant"
	RoleStaff       = "staff"
	RoleAdmin       = "admin"
)

type User struct {
	gorm.Model
	DiscordID        string `gorm:"uniqueIndex"`
	Username         string
	Email            string
	Avatar           string
	Role             string `gorm:"default:participant"`
	FirstName        string
	LastName         string
	Phone            string
	EmergencyContact string
	// Account-level permission to pay dues after the event. Both this and
	// the site-wide switch must be on before payment can be skipped.
	DeferredDuesAllowed bool
}

func (u *User) IsStaffOrAdmin() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
