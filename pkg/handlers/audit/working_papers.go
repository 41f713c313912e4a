package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/de-tools/audit-atlas/pkg/adapters"
	"github.com/de-tools/audit-atlas/pkg/models/api"
	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

// SetWorkingPaperStatus records a test outcome. A failed test with an issue
// draft raises the issue in the same step; the response carries it.
func (h *Handler) SetWorkingPaperStatus(w http.ResponseWriter, r *http.Request) {
	var req api.StatusChangeRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.controller.ApplyStatus(
		r.Context(),
		chi.URLParam(r, "wp"),
		domain.TestStatus(req.Status),
		adapters.MapIssueDraftApiToDomain(req.Issue),
	)
	if err != nil {
		writeError(w, r, err, "failed to change working paper status")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapTransitionDomainToApi(res))
}

func (h *Handler) PatchWorkingPaper(w http.ResponseWriter, r *http.Request) {
	var req api.WorkingPaperPatch
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wp, err := h.papers.UpdateWorkingPaper(r.Context(), chi.URLParam(r, "wp"), adapters.MapWorkingPaperPatchApiToDomain(req))
	if err != nil {
		writeError(w, r, err, "failed to update working paper")
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapWorkingPaperDomainToApi(wp))
}
