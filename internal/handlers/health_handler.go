package handlers

import (
	"net/http"

	"github.com/greet-service/internal/models"
)

// Health always reports healthy along with the backend chosen at startup.
func (h *UserHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Storage: string(h.app.Users.Backend()),
		Version: h.app.Version,
	})
}
