package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

// NotificationHandler exposes the caller's notifications
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns every notification of the caller, newest first
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Notification}
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListUnread returns the caller's unread notifications
// @Summary Unread notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Notification}
// @Security BearerAuth
// @Router /notifications/unread [get]
func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request, unreadOnly bool) {
	list, err := h.notifications.List(r.Context(), callerID(r), unreadOnly)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", list)
}

// CountUnread returns how many notifications are unread
// @Summary Unread count
// @Tags notifications
// @Produce json
// @Success 200 {object} models.Envelope{data=models.UnreadCountResponse}
// @Security BearerAuth
// @Router /notifications/unread/count [get]
func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.CountUnread(r.Context(), callerID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "", models.UnreadCountResponse{Count: n})
}

// MarkAllRead marks every notification of the caller read
// @Summary Mark all read
// @Tags notifications
// @Produce json
// @Success 200 {object} models.Envelope{data=models.MarkAllReadResponse}
// @Security BearerAuth
// @Router /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkAllRead(r.Context(), callerID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Notifications marquées comme lues", models.MarkAllReadResponse{Updated: n})
}

// MarkRead marks one notification read
// @Summary Mark read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.Envelope{data=models.Notification}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), callerID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Notification marquée comme lue", n)
}

// Delete removes one notification
// @Summary Delete notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Delete(r.Context(), chi.URLParam(r, "id"), callerID(r)); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, "Notification supprimée", nil)
}
