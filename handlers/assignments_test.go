package handlers

import (
	"net/http"
	"testing"

	"timesheets/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignment(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser("Admin User", "admin@example.com", models.RoleAdmin, 0)
	sup := f.createUser("Site Supervisor", "sup@example.com", models.RoleSupervisor, 0)
	project := f.createProject("Trundleys Road")

	rec := f.do(http.MethodPost, "/api/admin/supervisor-projects", f.token(admin),
		map[string]uint{"user_id": sup.ID, "project_id": project.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var assignment models.SupervisorProject
	decodeBody(t, rec, &assignment)
	assert.Equal(t, sup.ID, assignment.UserID)
	assert.Equal(t, project.ID, assignment.ProjectID)
	require.NotNil(t, assignment.User)
	assert.Equal(t, "Site Supervisor", assignment.User.Name)
}

func TestCreateAssignmentRejectsNonSupervisor(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser("Admin User", "admin@example.com", models.RoleAdmin, 0)
	op := f.createUser("John Smith", "john@example.com", models.RoleOperative, 22.5)
	project := f.createProject("Trundleys Road")

	rec := f.do(http.MethodPost, "/api/admin/supervisor-projects", f.token(admin),
		map[string]uint{"user_id": op.ID, "project_id": project.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user must be a supervisor", errorMessage(t, rec))
}

func TestCreateAssignmentRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser("Admin User", "admin@example.com", models.RoleAdmin, 0)
	sup := f.createUser("Site Supervisor", "sup@example.com", models.RoleSupervisor, 0)
	project := f.createProject("Trundleys Road")
	f.assignSupervisor(sup, project)

	rec := f.do(http.MethodPost, "/api/admin/supervisor-projects", f.token(admin),
		map[string]uint{"user_id": sup.ID, "project_id": project.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "supervisor is already assigned to this project", errorMessage(t, rec))
}

func TestCreateAssignmentUnknownTargets(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser("Admin User", "admin@example.com", models.RoleAdmin, 0)
	sup := f.createUser("Site Supervisor", "sup@example.com", models.RoleSupervisor, 0)
	token := f.token(admin)

	rec := f.do(http.MethodPost, "/api/admin/supervisor-projects", token,
		map[string]uint{"user_id": 999, "project_id": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", errorMessage(t, rec))

	rec = f.do(http.MethodPost, "/api/admin/supervisor-projects", token,
		map[string]uint{"user_id": sup.ID, "project_id": 999})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "project not found", errorMessage(t, rec))
}

func TestDeleteAssignment(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser("Admin User", "admin@example.com", models.RoleAdmin, 0)
	sup := f.createUser("Site Supervisor", "sup@example.com", models.RoleSupervisor, 0)
	project := f.createProject("Trundleys Road")
	f.assignSupervisor(sup, project)
	token := f.token(admin)

	rec := f.do(http.MethodDelete, "/api/admin/supervisor-projects", token,
		map[string]uint{"user_id": sup.ID, "project_id": project.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	f.db.Model(&models.SupervisorProject{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// Removing it again reports not found.
	rec = f.do(http.MethodDelete, "/api/admin/supervisor-projects", token,
		map[string]uint{"user_id": sup.ID, "project_id": project.ID})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "assignment not found", errorMessage(t, rec))
}

func TestListAssignments(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser("Admin User", "admin@example.com", models.RoleAdmin, 0)
	sup := f.createUser("Site Supervisor", "sup@example.com", models.RoleSupervisor, 0)
	a := f.createProject("Trundleys Road")
	b := f.createProject("General Maintenance")
	f.assignSupervisor(sup, a)
	f.assignSupervisor(sup, b)

	rec := f.do(http.MethodGet, "/api/admin/supervisor-projects", f.token(admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var assignments []models.SupervisorProject
	decodeBody(t, rec, &assignments)
	require.Len(t, assignments, 2)
	require.NotNil(t, assignments[0].Project)
}
