// Package handlers implements the HTTP request handlers for the API.
package handlers

import (
	"net/http"

	"github.com/deckvault/deckvault/internal/api/response"
)

// SystemHandler handles health and status requests.
type SystemHandler struct {
	persistence bool
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(persistence bool) *SystemHandler {
	return &SystemHandler{persistence: persistence}
}

// HealthStatus is the health check payload.
type HealthStatus struct {
	Status      string `json:"status"`
	Persistence bool   `json:"persistence"`
}

// Health answers the health check.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, HealthStatus{
		Status:      "ok",
		Persistence: h.persistence,
	})
}
