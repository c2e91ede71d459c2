package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

// ShareHandler handles share endpoints
type ShareHandler struct {
	shares *services.ShareService
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shares *services.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

// Create shares a collection with another user
// @Summary Share collection
// @Tags shares
// @Accept json
// @Produce json
// @Param request body models.CreateShareRequest true "Share"
// @Success 201 {object} models.Envelope{data=models.Share}
// @Failure 400 {object} models.Envelope "Invalid ids or self share"
// @Failure 403 {object} models.Envelope "Caller does not own the collection"
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /shares [post]
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateShareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	share, err := h.shares.Create(r.Context(), callerID(r), &req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, "Collection partagée avec succès", share)
}

// ListMine returns the shares addressed to the caller
// @Summary Shares received
// @Tags shares
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.ShareWithDetails}
// @Security BearerAuth
// @Router /shares/me [get]
func (h *ShareHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	shares, err := h.shares.ListForGuest(r.Context(), callerID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", shares)
}

// ListForCollection returns every share of a collection
// @Summary Shares of a collection
// @Tags shares
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} models.Envelope{data=[]models.Share}
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /shares/collection/{id} [get]
func (h *ShareHandler) ListForCollection(w http.ResponseWriter, r *http.Request) {
	shares, err := h.shares.ListForCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", shares)
}

// UpdateStatus lets the guest accept or refuse a share
// @Summary Answer a share
// @Tags shares
// @Accept json
// @Produce json
// @Param id path string true "Share ID"
// @Param request body models.UpdateShareStatusRequest true "New status"
// @Success 200 {object} models.Envelope{data=models.Share}
// @Failure 403 {object} models.Envelope "Caller is not the guest"
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /shares/{id}/status [patch]
func (h *ShareHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateShareStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	share, err := h.shares.UpdateStatus(r.Context(), chi.URLParam(r, "id"), callerID(r), models.ShareStatus(req.Status))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Statut du partage mis à jour", share)
}

// Delete removes a share and its notifications
// @Summary Delete share
// @Tags shares
// @Produce json
// @Param id path string true "Share ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /shares/{id} [delete]
func (h *ShareHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.shares.Delete(r.Context(), chi.URLParam(r, "id"), callerID(r)); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Partage supprimé", nil)
}
