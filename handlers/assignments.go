package handlers

import (
	"net/http"

	"timesheets/config"
	"timesheets/database"
	"timesheets/models"
)

// AssignmentHandler manages supervisor-project assignments. The routes it
// serves are mounted behind an admin-only gate.
type AssignmentHandler struct {
	config *config.Config
}

func NewAssignmentHandler(cfg *config.Config) *AssignmentHandler {
	return &AssignmentHandler{config: cfg}
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var assignments []models.SupervisorProject
	if err := database.GetDB().
		Preload("User").Preload("Project").
		Order("assigned_at desc").
		Find(&assignments).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch assignments")
		return
	}
	respondJSON(w, http.StatusOK, assignments)
}

type assignmentRequest struct {
	UserID    uint `json:"user_id"`
	ProjectID uint `json:"project_id"`
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == 0 || req.ProjectID == 0 {
		respondError(w, http.StatusBadRequest, "user ID and project ID are required")
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if !user.IsSupervisor() {
		respondError(w, http.StatusBadRequest, "user must be a supervisor")
		return
	}

	var project models.Project
	if err := db.First(&project, req.ProjectID).Error; err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	var existing int64
	db.Model(&models.SupervisorProject{}).
		Where("user_id = ? AND project_id = ?", req.UserID, req.ProjectID).
		Count(&existing)
	if existing > 0 {
		respondError(w, http.StatusBadRequest, "supervisor is already assigned to this project")
		return
	}

	assignment := models.SupervisorProject{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
	}

	if err := db.Create(&assignment).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}

	assignment.User = &user
	assignment.Project = &project
	respondJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == 0 || req.ProjectID == 0 {
		respondError(w, http.StatusBadRequest, "user ID and project ID are required")
		return
	}

	result := database.GetDB().
		Where("user_id = ? AND project_id = ?", req.UserID, req.ProjectID).
		Delete(&models.SupervisorProject{})
	if result.Error != nil {
		respondError(w, http.StatusInternalServerError, "failed to remove assignment")
		return
	}
	if result.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "assignment not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "assignment removed successfully"})
}
