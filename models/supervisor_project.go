package models

import (
	"time"
)

// SupervisorProject grants a supervisor the capability to act on a single
// project's timesheets. The referenced user must hold the SUPERVISOR role;
// assignments are created and removed by admins only.
type SupervisorProject struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_supervisor_project" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID  uint      `gorm:"not null;uniqueIndex:idx_supervisor_project" json:"project_id"`
	Project    *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}
