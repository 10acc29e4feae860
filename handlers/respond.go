package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"timesheets/database"
	"timesheets/models"
	"timesheets/policy"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes the JSON error body shared by every endpoint.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// parseDate parses a YYYY-MM-DD calendar day into midnight UTC, the
// canonical representation timesheet dates are stored and compared in.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// actorFor resolves the policy actor for a user, loading the supervisor's
// project assignment set when the role calls for it.
func actorFor(user *models.User) policy.Actor {
	actor := policy.Actor{ID: user.ID, Role: user.Role}
	if user.IsSupervisor() {
		var ids []uint
		database.GetDB().Model(&models.SupervisorProject{}).
			Where("user_id = ?", user.ID).
			Pluck("project_id", &ids)
		actor.AssignedProjectIDs = ids
	}
	return actor
}
