package handlers

import (
	"net/http"
	"strconv"

	"timesheets/config"
	"timesheets/database"
	"timesheets/models"

	"github.com/go-chi/chi/v5"
)

type ProjectHandler struct {
	config *config.Config
}

func NewProjectHandler(cfg *config.Config) *ProjectHandler {
	return &ProjectHandler{config: cfg}
}

// ListActive returns active projects for timesheet submission. Available to
// every authenticated role.
func (h *ProjectHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := database.GetDB().
		Where("is_active = ?", true).
		Order("name asc").
		Find(&projects).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

type projectWithCount struct {
	models.Project
	TimesheetCount int64 `json:"timesheet_count"`
}

// List returns every project with its timesheet count.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	db := database.GetDB()

	var projects []models.Project
	if err := db.Order("name asc").Find(&projects).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}

	type countRow struct {
		ProjectID uint
		Count     int64
	}
	var counts []countRow
	db.Model(&models.Timesheet{}).
		Select("project_id, count(*) as count").
		Group("project_id").
		Scan(&counts)

	countByProject := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByProject[c.ProjectID] = c.Count
	}

	out := make([]projectWithCount, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectWithCount{Project: p, TimesheetCount: countByProject[p.ID]})
	}

	respondJSON(w, http.StatusOK, out)
}

type createProjectRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "project name is required")
		return
	}

	db := database.GetDB()

	var existing int64
	db.Model(&models.Project{}).Where("name = ?", req.Name).Count(&existing)
	if existing > 0 {
		respondError(w, http.StatusBadRequest, "a project with this name already exists")
		return
	}

	project := models.Project{
		Name:     req.Name,
		Location: req.Location,
		IsActive: true,
	}

	if err := db.Create(&project).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

type updateProjectRequest struct {
	IsActive *bool   `json:"is_active"`
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	db := database.GetDB()

	var project models.Project
	if err := db.First(&project, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}
	if req.Name != nil && *req.Name != "" {
		project.Name = *req.Name
	}
	if req.Location != nil {
		project.Location = *req.Location
	}

	if err := db.Save(&project).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}
