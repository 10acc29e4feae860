package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"timesheets/config"
	"timesheets/database"
	"timesheets/middleware"
	"timesheets/models"
	"timesheets/notify"
	"timesheets/policy"

	"github.com/go-chi/chi/v5"
)

type TimesheetHandler struct {
	config     *config.Config
	dispatcher *notify.Dispatcher
}

func NewTimesheetHandler(cfg *config.Config, dispatcher *notify.Dispatcher) *TimesheetHandler {
	return &TimesheetHandler{
		config:     cfg,
		dispatcher: dispatcher,
	}
}

// ListMine returns the authenticated user's own timesheets, newest first.
func (h *TimesheetHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var sheets []models.Timesheet
	if err := database.GetDB().Preload("Project").
		Where("user_id = ?", user.ID).
		Order("date desc").Limit(50).
		Find(&sheets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch timesheets")
		return
	}

	respondJSON(w, http.StatusOK, sheets)
}

type submitRequest struct {
	ProjectID   uint    `json:"project_id"`
	Date        string  `json:"date"`
	HoursWorked float64 `json:"hours_worked"`
	Notes       string  `json:"notes"`
}

// Submit creates a PENDING timesheet for the authenticated user. One entry
// per (user, project, date) is enforced here; on-behalf creation by admins
// and supervisors bypasses this check.
func (h *TimesheetHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ProjectID == 0 || req.Date == "" || req.HoursWorked == 0 {
		respondError(w, http.StatusBadRequest, "project, date, and hours are required")
		return
	}

	if req.HoursWorked <= 0 || req.HoursWorked > 24 {
		respondError(w, http.StatusBadRequest, "hours must be between 0 and 24")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date format")
		return
	}

	db := database.GetDB()

	var project models.Project
	if err := db.First(&project, req.ProjectID).Error; err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	var existing int64
	db.Model(&models.Timesheet{}).
		Where("user_id = ? AND project_id = ? AND date = ?", user.ID, req.ProjectID, date).
		Count(&existing)
	if existing > 0 {
		respondError(w, http.StatusBadRequest, "you already have an entry for this project on this date")
		return
	}

	sheet := models.Timesheet{
		UserID:      user.ID,
		ProjectID:   req.ProjectID,
		Date:        date,
		HoursWorked: req.HoursWorked,
		Notes:       req.Notes,
		Status:      models.StatusPending,
	}

	if err := db.Create(&sheet).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create timesheet")
		return
	}

	sheet.Project = project
	respondJSON(w, http.StatusCreated, sheet)
}

// timesheetWithEditor augments a timesheet with the display name of the user
// who last edited it.
type timesheetWithEditor struct {
	models.Timesheet
	LastEditedByName *string `json:"last_edited_by_name"`
}

// ListAll returns every timesheet (optionally filtered by status) with user,
// project and editor names resolved. Admin-surface read: supervisors see all
// projects here, not just their assigned ones.
func (h *TimesheetHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	db := database.GetDB()
	query := db.Preload("User").Preload("Project")

	if status := models.Status(r.URL.Query().Get("status")); status != "" {
		if !models.ValidStatus(status) {
			respondError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	var sheets []models.Timesheet
	if err := query.Order("date desc").Limit(500).Find(&sheets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch timesheets")
		return
	}

	editorNames := h.resolveEditorNames(sheets)
	out := make([]timesheetWithEditor, 0, len(sheets))
	for _, ts := range sheets {
		row := timesheetWithEditor{Timesheet: ts}
		if ts.LastEditedBy != nil {
			if name, ok := editorNames[*ts.LastEditedBy]; ok {
				row.LastEditedByName = &name
			}
		}
		out = append(out, row)
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *TimesheetHandler) resolveEditorNames(sheets []models.Timesheet) map[uint]string {
	idSet := make(map[uint]struct{})
	for _, ts := range sheets {
		if ts.LastEditedBy != nil {
			idSet[*ts.LastEditedBy] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var editors []models.User
	database.GetDB().Where("id IN ?", ids).Find(&editors)

	names := make(map[uint]string, len(editors))
	for _, e := range editors {
		names[e.ID] = e.Name
	}
	return names
}

type createOnBehalfRequest struct {
	UserID      uint    `json:"user_id"`
	ProjectID   uint    `json:"project_id"`
	Date        string  `json:"date"`
	HoursWorked float64 `json:"hours_worked"`
	Notes       string  `json:"notes"`
}

// CreateOnBehalf creates a timesheet for another user. The entry is approved
// immediately and stamped with the editor; no duplicate check applies.
func (h *TimesheetHandler) CreateOnBehalf(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req createOnBehalfRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == 0 || req.ProjectID == 0 || req.Date == "" || req.HoursWorked == 0 {
		respondError(w, http.StatusBadRequest, "user, project, date, and hours are required")
		return
	}

	if req.HoursWorked < 0 {
		respondError(w, http.StatusBadRequest, "hours must not be negative")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date format")
		return
	}

	db := database.GetDB()

	var target models.User
	if err := db.First(&target, req.UserID).Error; err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	var project models.Project
	if err := db.First(&project, req.ProjectID).Error; err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}

	decision := policy.Decide(actorFor(actor), policy.ActionCreateTimesheet, policy.Target{ProjectID: project.ID})
	if !decision.Allowed {
		respondError(w, http.StatusForbidden, decision.Reason)
		return
	}

	sheet := models.Timesheet{
		UserID:       target.ID,
		ProjectID:    project.ID,
		Date:         date,
		HoursWorked:  req.HoursWorked,
		Notes:        req.Notes,
		Status:       models.StatusApproved,
		LastEditedBy: &actor.ID,
	}

	if err := db.Create(&sheet).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create timesheet")
		return
	}

	sheet.User = target
	sheet.Project = project

	h.dispatcher.Dispatch(notify.Event{
		Action:      notify.ActionCreated,
		TimesheetID: sheet.ID,
		Date:        sheet.Date,
		HoursWorked: sheet.HoursWorked,
		UserName:    target.Name,
		UserEmail:   target.Email,
		ProjectName: project.Name,
		Status:      string(sheet.Status),
		EditorName:  actor.Name,
	})

	respondJSON(w, http.StatusCreated, sheet)
}

type updateTimesheetRequest struct {
	Status      *models.Status `json:"status"`
	HoursWorked *float64       `json:"hours_worked"`
}

// Update changes a timesheet's status and/or hours. Any state may transition
// to any other. The editor is stamped and an "updated" notification carrying
// the previous hours (when they changed) is dispatched.
func (h *TimesheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid timesheet ID")
		return
	}

	var req updateTimesheetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Status != nil && !models.ValidStatus(*req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.HoursWorked != nil && *req.HoursWorked < 0 {
		respondError(w, http.StatusBadRequest, "hours must not be negative")
		return
	}

	db := database.GetDB()

	var sheet models.Timesheet
	if err := db.Preload("User").Preload("Project").First(&sheet, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "timesheet not found")
		return
	}

	decision := policy.Decide(actorFor(actor), policy.ActionEditTimesheet, policy.Target{ProjectID: sheet.ProjectID})
	if !decision.Allowed {
		respondError(w, http.StatusForbidden, decision.Reason)
		return
	}

	oldHours := sheet.HoursWorked
	hoursChanged := false

	if req.Status != nil {
		sheet.Status = *req.Status
	}
	if req.HoursWorked != nil && *req.HoursWorked != oldHours {
		sheet.HoursWorked = *req.HoursWorked
		hoursChanged = true
	}
	sheet.LastEditedBy = &actor.ID

	if err := db.Save(&sheet).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update timesheet")
		return
	}

	ev := notify.Event{
		Action:      notify.ActionUpdated,
		TimesheetID: sheet.ID,
		Date:        sheet.Date,
		HoursWorked: sheet.HoursWorked,
		UserName:    sheet.User.Name,
		UserEmail:   sheet.User.Email,
		ProjectName: sheet.Project.Name,
		Status:      string(sheet.Status),
		EditorName:  actor.Name,
	}
	if hoursChanged {
		ev.OldHoursWorked = &oldHours
	}
	h.dispatcher.Dispatch(ev)

	respondJSON(w, http.StatusOK, sheet)
}

// Delete removes a timesheet and dispatches a "deleted" notification built
// from the pre-delete snapshot.
func (h *TimesheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid timesheet ID")
		return
	}

	db := database.GetDB()

	var sheet models.Timesheet
	if err := db.Preload("User").Preload("Project").First(&sheet, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "timesheet not found")
		return
	}

	decision := policy.Decide(actorFor(actor), policy.ActionDeleteTimesheet, policy.Target{ProjectID: sheet.ProjectID})
	if !decision.Allowed {
		respondError(w, http.StatusForbidden, decision.Reason)
		return
	}

	if err := db.Delete(&sheet).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete timesheet")
		return
	}

	h.dispatcher.Dispatch(notify.Event{
		Action:      notify.ActionDeleted,
		TimesheetID: sheet.ID,
		Date:        sheet.Date,
		HoursWorked: sheet.HoursWorked,
		UserName:    sheet.User.Name,
		UserEmail:   sheet.User.Email,
		ProjectName: sheet.Project.Name,
		Status:      string(sheet.Status),
		EditorName:  actor.Name,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "timesheet deleted"})
}

// ExportCSV streams one month of timesheets as CSV.
func (h *TimesheetHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		respondError(w, http.StatusBadRequest, "invalid year")
		return
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)

	var sheets []models.Timesheet
	if err := database.GetDB().Preload("User").Preload("Project").
		Where("date >= ? AND date < ?", startDate, endDate).
		Order("date asc, user_id asc").
		Find(&sheets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch timesheets")
		return
	}

	filename := fmt.Sprintf("timesheets_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Operative", "Email", "Project", "Date", "Hours", "Status", "Notes"})
	for _, ts := range sheets {
		writer.Write([]string{
			ts.User.Name,
			ts.User.Email,
			ts.Project.Name,
			ts.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", ts.HoursWorked),
			string(ts.Status),
			ts.Notes,
		})
	}
}
