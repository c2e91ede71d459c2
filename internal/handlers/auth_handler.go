package handlers

import (
	"net/http"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

// AuthHandler handles login and identity endpoints
type AuthHandler struct {
	users *services.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Login exchanges credentials for a bearer token
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.Envelope{data=models.LoginResponse}
// @Failure 400 {object} models.Envelope "Invalid body"
// @Failure 401 {object} models.Envelope "Invalid credentials"
// @Failure 429 {object} models.Envelope "Too many attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.users.Login(r.Context(), &req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Connexion réussie", resp)
}

// Me returns the caller
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 401 {object} models.Envelope
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, "", middleware.GetUserFromContext(r.Context()))
}
