package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/audit-atlas/pkg/adapters"
	"github.com/de-tools/audit-atlas/pkg/models/api"
)

const analysisUnavailable = "AI analysis is not configured"

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		http.Error(w, analysisUnavailable, http.StatusServiceUnavailable)
		return
	}
	var req api.AnalysisRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.analyzer.Analyze(r.Context(), req.Findings)
	if err != nil {
		writeAnalysisError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapAnalysisDomainToApi(res))
}

func (h *Handler) DraftReport(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		http.Error(w, analysisUnavailable, http.StatusServiceUnavailable)
		return
	}
	projectID := chi.URLParam(r, "project")
	view, err := h.resolver.SelectProject(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err, "failed to load project")
		return
	}

	draft, err := h.analyzer.DraftReport(r.Context(), view)
	if err != nil {
		writeAnalysisError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.ReportDraft{ProjectID: projectID, Draft: draft})
}

// model failures surface as 502; input problems keep their usual codes
func writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	if status(err) != http.StatusInternalServerError {
		writeError(w, r, err, "")
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("analysis request failed")
	http.Error(w, "analysis request failed", http.StatusBadGateway)
}
