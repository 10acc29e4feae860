// Package stats derives per-user presence, hour and cost summaries from a
// snapshot of timesheet records. Nothing here is cached or persisted; every
// call recomputes from the records it is handed. Time-dependent functions
// take the reference day as an argument.
package stats

import (
	"math"
	"sort"
	"time"

	"timesheets/models"
)

// DateKey is the canonical calendar-day bucket key for a timesheet date.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CountWorkingDays counts the non-weekend days of the given month that are
// not after today. For a wholly future month the count is zero.
func CountWorkingDays(year int, month time.Month, today time.Time) int {
	todayKey := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	count := 0
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Month() == month {
		if !isWeekend(d) && !d.After(todayKey) {
			count++
		}
		d = d.AddDate(0, 0, 1)
	}
	return count
}

// UserPresence is one row of the monthly presence table.
type UserPresence struct {
	UserID             uint    `json:"user_id"`
	Name               string  `json:"name"`
	MonthlyHours       float64 `json:"monthly_hours"`
	DaysPresent        int     `json:"days_present"`
	TotalWorkingDays   int     `json:"total_working_days"`
	PresencePercentage int     `json:"presence_percentage"`
}

// MonthlyPresence computes attendance for each user over one calendar month.
// A day counts as present when the user has at least one timesheet on it,
// regardless of status, project or hours; multiple entries on the same day
// count once. Hours sum every entry of any status. Rows are ordered by
// descending monthly hours; ties keep the input user order.
func MonthlyPresence(users []models.User, sheets []models.Timesheet, year int, month time.Month, today time.Time) []UserPresence {
	workingDays := CountWorkingDays(year, month, today)

	rows := make([]UserPresence, 0, len(users))
	for _, u := range users {
		seen := make(map[string]struct{})
		var hours float64
		for _, ts := range sheets {
			if ts.UserID != u.ID || ts.Date.Year() != year || ts.Date.Month() != month {
				continue
			}
			seen[DateKey(ts.Date)] = struct{}{}
			hours += ts.HoursWorked
		}

		pct := 0
		if workingDays > 0 {
			pct = int(math.Round(float64(len(seen)) / float64(workingDays) * 100))
		}

		rows = append(rows, UserPresence{
			UserID:             u.ID,
			Name:               u.Name,
			MonthlyHours:       hours,
			DaysPresent:        len(seen),
			TotalWorkingDays:   workingDays,
			PresencePercentage: pct,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MonthlyHours > rows[j].MonthlyHours
	})
	return rows
}

// WeekStart returns the Monday on or before d, at midnight UTC.
func WeekStart(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// WeekCell is one user/day bucket of the weekly grid. Hours sums every entry
// for that user and day; TimesheetID is the first entry encountered and is
// the record an edit against the cell modifies (first-wins, not a merge).
type WeekCell struct {
	Hours       float64 `json:"hours"`
	TimesheetID uint    `json:"timesheet_id,omitempty"`
}

type WeekRow struct {
	UserID     uint                `json:"user_id"`
	Name       string              `json:"name"`
	HourlyRate float64             `json:"hourly_rate"`
	Cells      map[string]WeekCell `json:"cells"`
	TotalHours float64             `json:"total_hours"`
	Cost       float64             `json:"cost"`
}

type WeekSummary struct {
	WeekStart    time.Time          `json:"week_start"`
	WeekEnd      time.Time          `json:"week_end"`
	Days         []string           `json:"days"`
	Rows         []WeekRow          `json:"rows"`
	ColumnTotals map[string]float64 `json:"column_totals"`
	TotalHours   float64            `json:"total_hours"`
	TotalCost    float64            `json:"total_cost"`
}

// WeeklyGrid buckets timesheets into the 7-day window starting at the Monday
// of start's week. Cost is hours times the user's current hourly rate,
// recomputed on every call. Rows are ordered by descending total hours with
// ties keeping the input user order.
func WeeklyGrid(users []models.User, sheets []models.Timesheet, start time.Time) WeekSummary {
	weekStart := WeekStart(start)
	weekEnd := weekStart.AddDate(0, 0, 6)
	limit := weekStart.AddDate(0, 0, 7)

	days := make([]string, 7)
	for i := 0; i < 7; i++ {
		days[i] = DateKey(weekStart.AddDate(0, 0, i))
	}

	cells := make(map[uint]map[string]WeekCell, len(users))
	for _, u := range users {
		cells[u.ID] = make(map[string]WeekCell, 7)
	}

	for _, ts := range sheets {
		if ts.Date.Before(weekStart) || !ts.Date.Before(limit) {
			continue
		}
		row, ok := cells[ts.UserID]
		if !ok {
			continue
		}
		key := DateKey(ts.Date)
		cell := row[key]
		cell.Hours += ts.HoursWorked
		if cell.TimesheetID == 0 {
			cell.TimesheetID = ts.ID
		}
		row[key] = cell
	}

	summary := WeekSummary{
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
		Days:         days,
		ColumnTotals: make(map[string]float64, 7),
	}
	for _, key := range days {
		summary.ColumnTotals[key] = 0
	}

	for _, u := range users {
		row := WeekRow{
			UserID:     u.ID,
			Name:       u.Name,
			HourlyRate: u.HourlyRate,
			Cells:      cells[u.ID],
		}
		for key, cell := range row.Cells {
			row.TotalHours += cell.Hours
			summary.ColumnTotals[key] += cell.Hours
		}
		row.Cost = row.TotalHours * u.HourlyRate
		summary.TotalHours += row.TotalHours
		summary.TotalCost += row.Cost
		summary.Rows = append(summary.Rows, row)
	}

	sort.SliceStable(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].TotalHours > summary.Rows[j].TotalHours
	})
	return summary
}
