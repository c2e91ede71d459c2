package handlers

import (
	"errors"
	"net/http"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

// AvatarHandler handles profile picture uploads
type AvatarHandler struct {
	avatars *services.AvatarService
}

// NewAvatarHandler creates a new AvatarHandler
func NewAvatarHandler(avatars *services.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

// Upload replaces the caller's profile picture
// @Summary Upload avatar
// @Description Square-cropped and re-encoded as JPEG
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Picture (jpg, png, gif, webp, heic)"
// @Success 200 {object} models.Envelope{data=models.AvatarResponse}
// @Failure 400 {object} models.Envelope "Missing, invalid or oversized file"
// @Security BearerAuth
// @Router /upload/avatar [post]
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// multipart framing on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.avatars.MaxBytes()+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, r, models.ErrFileTooLarge)
			return
		}
		middleware.WriteError(w, r, models.ErrNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		middleware.WriteError(w, r, models.ErrNoFile)
		return
	}
	defer file.Close()

	user := middleware.GetUserFromContext(r.Context())
	resp, err := h.avatars.Upload(r.Context(), user, header.Filename, file)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Photo de profil mise à jour", resp)
}

// Remove clears the caller's profile picture
// @Summary Remove avatar
// @Tags upload
// @Produce json
// @Success 200 {object} models.Envelope{data=models.User}
// @Security BearerAuth
// @Router /upload/avatar [delete]
func (h *AvatarHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, err := h.avatars.Remove(r.Context(), middleware.GetUserFromContext(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Photo de profil supprimée", user)
}
