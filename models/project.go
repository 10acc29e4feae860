package models

import (
	"time"
)

type Project struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Name       string      `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Location   string      `gorm:"size:200" json:"location,omitempty"`
	IsActive   bool        `gorm:"not null;default:true" json:"is_active"`
	Timesheets []Timesheet `gorm:"foreignKey:ProjectID" json:"timesheets,omitempty"`
}
