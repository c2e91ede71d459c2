package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

// UserHandler handles account endpoints
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates an account
// @Summary Register
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "New account"
// @Success 201 {object} models.Envelope{data=models.User}
// @Failure 400 {object} models.Envelope "Invalid body or username/email taken"
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, "Utilisateur créé avec succès", user)
}

// List returns every user
// @Summary List users
// @Description Admins and moderators only
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.User}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), middleware.GetUserFromContext(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", users)
}

// Get returns one user
// @Summary Get user
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /users/{userId} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", user)
}

// UpdateMe edits the caller's username, email or password
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 400 {object} models.Envelope
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	user, err := h.users.UpdateProfile(r.Context(), caller.ID, &req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Profil mis à jour", user)
}

// UpdateRole changes a user's role
// @Summary Change role
// @Description Admins only
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body models.UpdateRoleRequest true "New role"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /users/{userId}/role [patch]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := middleware.GetUserFromContext(r.Context())
	user, err := h.users.UpdateRole(r.Context(), caller, chi.URLParam(r, "userId"), models.Role(req.Role))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Rôle mis à jour", user)
}
