package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/de-tools/audit-atlas/pkg/adapters"
	"github.com/de-tools/audit-atlas/pkg/models/api"
)

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.explorer.ListProjects(r.Context())
	response := make([]api.Project, 0, len(projects))
	for _, p := range projects {
		response = append(response, adapters.MapProjectDomainToApi(p))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	view, err := h.resolver.SelectProject(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeError(w, r, err, "failed to load project")
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapProjectViewDomainToApi(view))
}

// ListProgrammes answers an unknown project with an empty list, not a 404.
func (h *Handler) ListProgrammes(w http.ResponseWriter, r *http.Request) {
	nodes := h.resolver.Resolve(r.Context(), chi.URLParam(r, "project"))
	writeJSON(w, r, http.StatusOK, adapters.MapProgrammeNodesDomainToApi(nodes))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapDashboardDomainToApi(h.explorer.Dashboard(r.Context())))
}
