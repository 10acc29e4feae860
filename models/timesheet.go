package models

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ValidStatus reports whether s is one of the three known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Timesheet is one dated hours-worked record tied to a user and a project.
// Status transitions are unrestricted: any of the three states may move to
// any other. Deletion removes the row outright.
type Timesheet struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	Project      Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Date         time.Time `gorm:"not null;type:date;index" json:"date"`
	HoursWorked  float64   `gorm:"not null" json:"hours_worked"`
	Notes        string    `gorm:"size:500" json:"notes,omitempty"`
	Status       Status    `gorm:"not null;size:20;default:PENDING" json:"status"`
	LastEditedBy *uint     `gorm:"index" json:"last_edited_by,omitempty"`
}
