package handler

import (
	"encoding/json"
	"net/http"

	"socialimpact/internal/logger"
	"socialimpact/internal/model"
	"socialimpact/internal/service"
	"socialimpact/internal/transport/rest/middleware"
)

// AssessmentHandler handles form submissions
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	authSvc       *service.AuthService
	log           *logger.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, authSvc *service.AuthService, log *logger.Logger) *AssessmentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AssessmentHandler{assessmentSvc: assessmentSvc, authSvc: authSvc, log: log}
}

// AssessmentResponse is the result card
type AssessmentResponse struct {
	SessionID string               `json:"sessionId"`
	Token     string               `json:"token,omitempty"` // only when a new session was started
	Score     float64              `json:"score"`
	Display   string               `json:"display"`
	Band      string               `json:"band"`
	Summary   model.ProfileSummary `json:"summary"`
}

// Submit handles POST /v1/assessments
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var profile model.UserProfile
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	var token string
	if sessionID == "" {
		sessionID = h.authSvc.NewSessionID()
		t, err := h.authSvc.IssueSessionToken(sessionID)
		if err != nil {
			h.log.Error("failed to issue session token", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		token = t
	}

	a, err := h.assessmentSvc.Submit(r.Context(), sessionID, profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AssessmentResponse{
		SessionID: sessionID,
		Token:     token,
		Score:     a.Score,
		Display:   a.Display,
		Band:      a.Band,
		Summary:   a.Summary,
	})
}
