package models

import (
	"time"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleOperative  Role = "OPERATIVE"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleOperative:
		return true
	}
	return false
}

// User rows are hard-deleted: a removed account frees its email for reuse.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Name         string      `gorm:"not null;size:200" json:"name"`
	Email        string      `gorm:"uniqueIndex;not null;size:200" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         Role        `gorm:"not null;size:20" json:"role"`
	HourlyRate   float64     `gorm:"not null;default:0" json:"hourly_rate"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	Timesheets   []Timesheet `gorm:"foreignKey:UserID" json:"timesheets,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsSupervisor() bool {
	return u.Role == RoleSupervisor
}

func (u *User) IsOperative() bool {
	return u.Role == RoleOperative
}
