package handlers

import (
	"net/http"
	"strconv"
	"time"

	"timesheets/config"
	"timesheets/database"
	"timesheets/models"
	"timesheets/stats"
)

type StatsHandler struct {
	config *config.Config
}

func NewStatsHandler(cfg *config.Config) *StatsHandler {
	return &StatsHandler{config: cfg}
}

type overviewResponse struct {
	TotalUsers          int64   `json:"total_users"`
	TotalProjects       int64   `json:"total_projects"`
	PendingTimesheets   int64   `json:"pending_timesheets"`
	TotalHoursThisMonth float64 `json:"total_hours_this_month"`
}

// Overview returns the dashboard headline numbers. Unlike the presence and
// weekly rollups, the monthly hours figure counts APPROVED entries only; it
// feeds payroll expectations rather than attendance.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	db := database.GetDB()
	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var resp overviewResponse
	db.Model(&models.User{}).Where("role = ?", models.RoleOperative).Count(&resp.TotalUsers)
	db.Model(&models.Project{}).Where("is_active = ?", true).Count(&resp.TotalProjects)
	db.Model(&models.Timesheet{}).Where("status = ?", models.StatusPending).Count(&resp.PendingTimesheets)
	db.Model(&models.Timesheet{}).
		Where("date >= ? AND status = ?", startOfMonth, models.StatusApproved).
		Select("COALESCE(SUM(hours_worked), 0)").
		Scan(&resp.TotalHoursThisMonth)

	respondJSON(w, http.StatusOK, resp)
}

// Presence returns the monthly presence table for active operatives and
// supervisors. Defaults to the current month.
func (h *StatsHandler) Presence(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 2100 {
			respondError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			respondError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(m)
	}

	db := database.GetDB()

	var users []models.User
	if err := db.Where("role IN ? AND is_active = ?",
		[]models.Role{models.RoleOperative, models.RoleSupervisor}, true).
		Order("name asc").
		Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var sheets []models.Timesheet
	if err := db.Where("date >= ? AND date < ?", start, end).Find(&sheets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch timesheets")
		return
	}

	rows := stats.MonthlyPresence(users, sheets, year, month, now)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"month": int(month),
		"rows":  rows,
	})
}

// Weekly returns the Monday-aligned weekly grid with per-cell hours, row and
// column totals and costs. Defaults to the current week.
func (h *StatsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	start := time.Now().UTC()
	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		start = parsed
	}

	weekStart := stats.WeekStart(start)
	limit := weekStart.AddDate(0, 0, 7)

	db := database.GetDB()

	// Inactive users stay in the grid so historical weeks remain complete.
	var users []models.User
	if err := db.Where("role IN ?",
		[]models.Role{models.RoleOperative, models.RoleSupervisor}).
		Order("name asc").
		Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	var sheets []models.Timesheet
	if err := db.Where("date >= ? AND date < ?", weekStart, limit).
		Order("id asc").
		Find(&sheets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch timesheets")
		return
	}

	respondJSON(w, http.StatusOK, stats.WeeklyGrid(users, sheets, weekStart))
}
