package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
)

// Pinger reports whether the database answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the server health status
// @Summary Health check
// @Description Returns the current health status of the server and its database
// @Tags health
// @Produce json
// @Success 200 {object} models.Envelope{data=models.HealthResponse} "Server is healthy"
// @Failure 503 {object} models.Envelope{data=models.HealthResponse} "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := models.HealthResponse{
		Status:    "healthy",
		Database:  "up",
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "down"
		status = http.StatusServiceUnavailable
	}
	middleware.WriteJSON(w, status, "", response)
}
