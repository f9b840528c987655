package handlers

import (
	"net/http"
	"route-time-service/internal/api/dto"
)

// Hello is the smoke-test endpoint; it answers the same greeting in every state.
func Hello(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HelloResponse{Message: "Hello World"})
}
