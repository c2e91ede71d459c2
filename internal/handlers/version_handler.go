package handlers

import (
	"net/http"

	"github.com/gather/server/internal/middleware"
)

// Version information injected at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

type VersionResponse struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
}

// VersionHandler reports the build
// @Summary Build version
// @Tags health
// @Produce json
// @Success 200 {object} models.Envelope{data=VersionResponse}
// @Router /version [get]
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, "", VersionResponse{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	})
}
