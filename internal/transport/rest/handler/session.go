package handler

import (
	"errors"
	"net/http"

	"socialimpact/internal/model"
	"socialimpact/internal/service"
	"socialimpact/internal/transport/rest/middleware"
)

// SessionHandler exposes the current session state
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Get handles GET /v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	session, err := h.sessionSvc.Get(r.Context(), id)
	if errors.Is(err, service.ErrSessionNotFound) {
		// token outlived the stored state: nothing scored yet
		writeJSON(w, http.StatusOK, model.NewSession(id).View())
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session.View())
}

// Delete handles DELETE /v1/session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.Delete(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
