package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"route-time-service/internal/api/dto"
	"route-time-service/internal/domain"
	"route-time-service/internal/platform/obs"
)

const maxBodyBytes = 1 << 20

// Estimator is the service the route-time endpoint delegates to.
type Estimator interface {
	Estimate(ctx context.Context, req domain.RouteRequest) (float64, error)
	ModelLoaded() bool
}

type RouteTimeHandler struct {
	Estimator Estimator
}

// RouteTime estimates the travel time of a shipment.
//
// Any syntactically valid request is answered with 200 and the fixed
// 0/"Ok" envelope; the outcome is carried by the nested response, which
// holds either travel_time or error. Malformed bodies are rejected with 422.
func (h *RouteTimeHandler) RouteTime(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var body dto.RouteRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()

	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid json body: "+err.Error())
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusUnprocessableEntity, "body must contain only one JSON object")
		return
	}

	req, err := body.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log.Infof("req_id=%s received request %s -> %s", obs.RequestID(r.Context()), req.StationFrom, req.StationTo)

	travelTime, err := h.Estimator.Estimate(r.Context(), req)
	writeJSON(w, r, http.StatusOK, dto.NewRouteAPIResponse(travelTime, err))
}
