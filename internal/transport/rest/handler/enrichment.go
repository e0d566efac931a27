package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialimpact/internal/model"
	"socialimpact/internal/service"
	"socialimpact/internal/transport/rest/middleware"
)

// EnrichmentHandler handles the AI panel buttons
type EnrichmentHandler struct {
	enrichmentSvc *service.EnrichmentService
}

// NewEnrichmentHandler creates a new enrichment handler
func NewEnrichmentHandler(enrichmentSvc *service.EnrichmentService) *EnrichmentHandler {
	return &EnrichmentHandler{enrichmentSvc: enrichmentSvc}
}

// GenerateOne handles POST /v1/enrichments/{kind}
func (h *EnrichmentHandler) GenerateOne(w http.ResponseWriter, r *http.Request) {
	kind := model.EnrichmentKind(mux.Vars(r)["kind"])

	panel, err := h.enrichmentSvc.Generate(r.Context(), middleware.GetSessionID(r.Context()), kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, panel)
}

// GenerateAll handles POST /v1/enrichments
func (h *EnrichmentHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.enrichmentSvc.GenerateAll(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
