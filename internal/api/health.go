package api

import (
	"net/http"
	"time"

	"github.com/tidewell/scheduler/internal/api/respond"
)

// HealthHandler reports the cached service health; it never probes inline.
type HealthHandler struct {
	isHealthy  func() bool
	components func() map[string]bool
}

// NewHealthHandler binds the service health functions. components may be nil.
func NewHealthHandler(isHealthy func() bool, components func() map[string]bool) *HealthHandler {
	return &HealthHandler{isHealthy: isHealthy, components: components}
}

// CheckHealth handles GET /api/health; it answers 503 while unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "unhealthy", http.StatusServiceUnavailable
	if h.isHealthy() {
		status, code = "healthy", http.StatusOK
	}
	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if h.components != nil {
		response["components"] = h.components()
	}
	respond.WriteJSON(w, code, response)
}
