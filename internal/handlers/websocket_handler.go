package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/services"
)

// WebSocketHandler upgrades authenticated clients onto the notification channel
type WebSocketHandler struct {
	hub      *services.WebSocketHub
	auth     middleware.Authenticator
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. An empty origin list
// accepts every origin.
func NewWebSocketHandler(hub *services.WebSocketHub, auth middleware.Authenticator, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimSuffix(o, "/")] = true
	}

	return &WebSocketHandler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin] || origins["*"]
			},
		},
	}
}

// HandleConnection authenticates with the token query parameter (browsers
// cannot set headers on upgrade requests) or a bearer header
// @Summary Notification stream
// @Description WebSocket; pushes {"type":"notification","payload":Notification}
// @Tags realtime
// @Param token query string false "Bearer token"
// @Success 101 "Switching protocols"
// @Failure 401 {object} models.Envelope
// @Router /ws [get]
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if scheme, value, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
			token = strings.TrimSpace(value)
		}
	}
	if token == "" {
		middleware.WriteError(w, r, models.ErrAuthRequired)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		observability.WithContext(r.Context()).WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := h.hub.NewClient(uuid.NewString(), user.ID, conn)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}
