package handlers

import (
	"net/http"
	"route-time-service/internal/api/dto"
)

// HealthHandler provides a minimal liveness check that also reports
// whether the service runs with a model.
type HealthHandler struct {
	Estimator Estimator
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	res := dto.HealthResponse{Status: "ok", ModelLoaded: h.Estimator.ModelLoaded()}
	writeJSON(w, r, http.StatusOK, res)
}
