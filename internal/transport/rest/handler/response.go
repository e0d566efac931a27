package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"socialimpact/internal/model"
	"socialimpact/internal/scoring"
	"socialimpact/internal/service"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		loadErr *scoring.ModelLoadError
		infErr  *scoring.InferenceError
	)
	switch {
	case errors.Is(err, model.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &loadErr):
		writeError(w, http.StatusServiceUnavailable, "scoring is unavailable: the wellness model could not be loaded")
	case errors.As(err, &infErr):
		writeError(w, http.StatusInternalServerError, "prediction error: "+infErr.Err.Error())
	case errors.Is(err, service.ErrUnknownEnrichment):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found or expired")
	case errors.Is(err, service.ErrNoScore):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSessionChanged):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEnrichmentUnavailable):
		writeError(w, http.StatusServiceUnavailable, "AI features are unavailable right now")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
