package http

import (
	"net/http"

	"github.com/go-chi/render"

	"payeqcli/pkg/contracts/domain"
)

// Version is set at build time via ldflags.
var Version = "dev"

// HealthHandler handles health HTTP requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, domain.HealthResponse{Status: "ok", Version: Version})
}

// LivenessCheck handles GET /api/health/live.
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, domain.HealthResponse{Status: "alive"})
}
