package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/de-tools/audit-atlas/pkg/adapters"
	"github.com/de-tools/audit-atlas/pkg/models/api"
	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.IssueFilter{
		ProjectID: q.Get("project"),
		Status:    domain.IssueStatus(q.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, "invalid 'status'. Expected one of: open, management_response, closed", http.StatusBadRequest)
		return
	}
	if raw := q.Get("min_risk"); raw != "" {
		risk, err := domain.ParseRiskLevel(raw)
		if err != nil {
			http.Error(w, "invalid 'min_risk'. Expected one of: low, medium, high, critical", http.StatusBadRequest)
			return
		}
		filter.MinRisk = &risk
	}

	rows := h.explorer.ListIssues(r.Context(), filter)
	response := make([]api.Issue, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapIssueRowDomainToApi(row))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetIssue(w http.ResponseWriter, r *http.Request) {
	row, err := h.explorer.GetIssue(r.Context(), chi.URLParam(r, "issue"))
	if err != nil {
		writeError(w, r, err, "failed to load issue")
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapIssueRowDomainToApi(row))
}

func (h *Handler) SetIssueStatus(w http.ResponseWriter, r *http.Request) {
	var req api.StatusChangeRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.controller.TransitionIssue(r.Context(), chi.URLParam(r, "issue"), domain.IssueStatus(req.Status))
	if err != nil {
		writeError(w, r, err, "failed to change issue status")
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapIssueDomainToApi(res.Issue))
}
