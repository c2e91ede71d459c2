package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

// CollectionHandler handles collection API endpoints
type CollectionHandler struct {
	collections *services.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collections *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// callerID is the authenticated user's id, empty for anonymous requests
func callerID(r *http.Request) string {
	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return ""
}

// Create creates a collection owned by the caller
// @Summary Create collection
// @Tags collections
// @Accept json
// @Produce json
// @Param request body models.CreateCollectionRequest true "Collection"
// @Success 201 {object} models.Envelope{data=models.Collection}
// @Failure 400 {object} models.Envelope "Invalid body, duplicate name or type mismatch"
// @Failure 404 {object} models.Envelope "Unknown work"
// @Security BearerAuth
// @Router /collections [post]
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCollectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	collection, err := h.collections.Create(r.Context(), callerID(r), &req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, "Collection créée avec succès", collection)
}

// List returns public collections, or every collection for admins and
// moderators passing all=true
// @Summary List collections
// @Tags collections
// @Produce json
// @Param all query bool false "Every collection (admin/moderator)"
// @Success 200 {object} models.Envelope{data=[]models.Collection}
// @Failure 401 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /collections [get]
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		collections []*models.Collection
		err         error
	)
	if r.URL.Query().Get("all") == "true" {
		caller := middleware.GetUserFromContext(r.Context())
		if caller == nil {
			middleware.WriteError(w, r, models.ErrAuthRequired)
			return
		}
		collections, err = h.collections.ListAll(r.Context(), caller)
	} else {
		collections, err = h.collections.ListPublic(r.Context())
	}
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", collections)
}

// ListMine returns the caller's own collections and those shared with them
// @Summary My collections
// @Tags collections
// @Produce json
// @Success 200 {object} models.Envelope{data=models.CollectionListResponse}
// @Security BearerAuth
// @Router /collections/me [get]
func (h *CollectionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	resp, err := h.collections.ListForUser(r.Context(), callerID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", resp)
}

// Get returns a collection the caller may read
// @Summary Get collection
// @Tags collections
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} models.Envelope{data=models.Collection}
// @Failure 400 {object} models.Envelope
// @Failure 401 {object} models.Envelope "Private collection, anonymous caller"
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /collections/{id} [get]
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection, err := h.collections.Get(r.Context(), chi.URLParam(r, "id"), callerID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", collection)
}

// Update applies a partial update
// @Summary Update collection
// @Description Name, type and visibility need the owner; works alone can be replaced by edit guests
// @Tags collections
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param request body models.UpdateCollectionRequest true "Fields to change"
// @Success 200 {object} models.Envelope{data=models.Collection}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /collections/{id} [patch]
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCollectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	collection, err := h.collections.Update(r.Context(), chi.URLParam(r, "id"), callerID(r), &req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Collection mise à jour", collection)
}

// Delete removes a collection
// @Summary Delete collection
// @Tags collections
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /collections/{id} [delete]
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.collections.Delete(r.Context(), chi.URLParam(r, "id"), callerID(r)); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Collection supprimée", nil)
}

// AddWorks merges works into a collection. 200 when every id was added,
// 207 when some were rejected, 422 when none was eligible.
// @Summary Add works
// @Tags collections
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param request body models.WorkIDsRequest true "Work IDs"
// @Success 200 {object} models.Envelope{data=models.AddWorksResult}
// @Success 207 {object} models.Envelope{data=models.AddWorksResult} "Partially added"
// @Failure 422 {object} models.Envelope{data=models.AddWorksResult} "Nothing added"
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /collections/{id}/works [post]
func (h *CollectionHandler) AddWorks(w http.ResponseWriter, r *http.Request) {
	var req models.WorkIDsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.collections.AddWorks(r.Context(), chi.URLParam(r, "id"), callerID(r), req.WorkIDs)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	switch {
	case result.RejectedCount() == 0:
		middleware.WriteJSON(w, http.StatusOK, "Œuvres ajoutées", result)
	case result.AddedCount > 0:
		middleware.WriteJSON(w, http.StatusMultiStatus, "Certaines œuvres n'ont pas pu être ajoutées", result)
	default:
		middleware.WriteFailure(w, http.StatusUnprocessableEntity, "Aucune œuvre n'a pu être ajoutée", result)
	}
}

// RemoveWorks drops works from a collection
// @Summary Remove works
// @Tags collections
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param request body models.WorkIDsRequest true "Work IDs"
// @Success 200 {object} models.Envelope{data=models.Collection}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /collections/{id}/works [delete]
func (h *CollectionHandler) RemoveWorks(w http.ResponseWriter, r *http.Request) {
	var req models.WorkIDsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	collection, err := h.collections.RemoveWorks(r.Context(), chi.URLParam(r, "id"), callerID(r), req.WorkIDs)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Œuvres retirées", collection)
}
