package handlers

import (
	"timesheets/config"
	"timesheets/middleware"
	"timesheets/models"
	"timesheets/notify"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every endpoint behind its authentication and role gates.
func NewRouter(cfg *config.Config, dispatcher *notify.Dispatcher) chi.Router {
	authHandler := NewAuthHandler(cfg)
	timesheetHandler := NewTimesheetHandler(cfg, dispatcher)
	userHandler := NewUserHandler(cfg)
	projectHandler := NewProjectHandler(cfg)
	assignmentHandler := NewAssignmentHandler(cfg)
	statsHandler := NewStatsHandler(cfg)

	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/api/auth/login", authHandler.Login)

	// Authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/api/auth/logout", authHandler.Logout)
		r.Put("/api/user/password", authHandler.ChangePassword)

		r.Get("/api/projects", projectHandler.ListActive)
		r.Get("/api/timesheets", timesheetHandler.ListMine)
		r.Post("/api/timesheets", timesheetHandler.Submit)

		// Admin surface: admins and supervisors
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor))

			r.Get("/api/admin/users", userHandler.List)
			r.Post("/api/admin/users", userHandler.Create)
			r.Patch("/api/admin/users/{id}", userHandler.Update)
			r.Delete("/api/admin/users/{id}", userHandler.Delete)

			r.Get("/api/admin/projects", projectHandler.List)
			r.Post("/api/admin/projects", projectHandler.Create)
			r.Patch("/api/admin/projects/{id}", projectHandler.Update)

			r.Get("/api/admin/timesheets", timesheetHandler.ListAll)
			r.Post("/api/admin/timesheets", timesheetHandler.CreateOnBehalf)
			r.Patch("/api/admin/timesheets/{id}", timesheetHandler.Update)
			r.Delete("/api/admin/timesheets/{id}", timesheetHandler.Delete)

			r.Get("/api/admin/stats", statsHandler.Overview)
			r.Get("/api/admin/presence", statsHandler.Presence)
			r.Get("/api/admin/summary/weekly", statsHandler.Weekly)
			r.Get("/api/admin/export/csv", timesheetHandler.ExportCSV)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/api/admin/supervisor-projects", assignmentHandler.List)
			r.Post("/api/admin/supervisor-projects", assignmentHandler.Create)
			r.Delete("/api/admin/supervisor-projects", assignmentHandler.Delete)
		})
	})

	return router
}
