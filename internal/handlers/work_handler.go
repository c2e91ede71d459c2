package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

// WorkHandler serves the public work catalog
type WorkHandler struct {
	works *services.WorkService
}

// NewWorkHandler creates a new WorkHandler
func NewWorkHandler(works *services.WorkService) *WorkHandler {
	return &WorkHandler{works: works}
}

// List filters the catalog
// @Summary Search works
// @Tags works
// @Produce json
// @Param type query string false "Work type" Enums(book, movie, series, music, game, other)
// @Param genre query []string false "Genres, all required; repeat or comma separate" collectionFormat(multi)
// @Param year query string false "Publication year (YYYY) or before-1900"
// @Param search query string false "Case-insensitive match on title or author"
// @Param limit query int false "1 to 100, default 20"
// @Success 200 {object} models.Envelope{data=models.WorkListResponse}
// @Failure 400 {object} models.Envelope
// @Router /works [get]
func (h *WorkHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := services.ParseWorkFilter(r.URL.Query())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	works, err := h.works.Find(r.Context(), filter)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", models.WorkListResponse{Works: works, Count: len(works)})
}

// Get returns one work
// @Summary Get work
// @Tags works
// @Produce json
// @Param id path string true "Work ID"
// @Success 200 {object} models.Envelope{data=models.Work}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /works/{id} [get]
func (h *WorkHandler) Get(w http.ResponseWriter, r *http.Request) {
	work, err := h.works.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", work)
}
