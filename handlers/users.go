package handlers

import (
	"net/http"
	"strconv"

	"timesheets/config"
	"timesheets/database"
	"timesheets/middleware"
	"timesheets/models"
	"timesheets/policy"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	config *config.Config
}

func NewUserHandler(cfg *config.Config) *UserHandler {
	return &UserHandler{config: cfg}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := database.GetDB().Order("name asc").Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	HourlyRate float64     `json:"hourly_rate"`
	Role       models.Role `json:"role"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}

	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	role := req.Role
	if !models.ValidRole(role) {
		role = models.RoleOperative
	}

	rate := req.HourlyRate
	if rate == 0 {
		rate = 20
	}

	db := database.GetDB()

	var existing int64
	db.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		respondError(w, http.StatusBadRequest, "a user with this email already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		HourlyRate:   rate,
		IsActive:     true,
	}

	if err := db.Create(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	IsActive   *bool    `json:"is_active"`
	HourlyRate *float64 `json:"hourly_rate"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.HourlyRate != nil {
		user.HourlyRate = *req.HourlyRate
	}

	if err := db.Save(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Delete removes a non-admin user together with their timesheets as one
// transaction. Self-deletion and deletion of admin accounts are refused.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	db := database.GetDB()

	var target models.User
	if err := db.First(&target, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if target.ID == actor.ID {
		respondError(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}

	decision := policy.Decide(actorFor(actor), policy.ActionDeleteUser,
		policy.Target{UserID: target.ID, UserRole: target.Role})
	if !decision.Allowed {
		respondError(w, http.StatusForbidden, decision.Reason)
		return
	}

	// The cascade is all-or-nothing: if the timesheets cannot be removed
	// the user record stays.
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.Timesheet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.SupervisorProject{}).Error; err != nil {
			return err
		}
		return tx.Delete(&target).Error
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", target.ID).Error("failed to delete user")
		respondError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
