package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/services/analysis"
	"github.com/de-tools/audit-atlas/pkg/services/hierarchy"
	"github.com/de-tools/audit-atlas/pkg/services/portfolio"
	"github.com/de-tools/audit-atlas/pkg/services/workflow"
)

// PaperEditor applies non-status edits to a working paper.
type PaperEditor interface {
	UpdateWorkingPaper(ctx context.Context, id string, patch domain.WorkingPaperPatch) (domain.WorkingPaper, error)
}

type Handler struct {
	resolver   hierarchy.Resolver
	explorer   portfolio.Explorer
	controller workflow.Controller
	papers     PaperEditor
	analyzer   analysis.Analyzer
}

// NewHandler wires the audit endpoints. analyzer may be nil, in which case the
// AI endpoints answer 503.
func NewHandler(
	resolver hierarchy.Resolver,
	explorer portfolio.Explorer,
	controller workflow.Controller,
	papers PaperEditor,
	analyzer analysis.Analyzer,
) *Handler {
	return &Handler{
		resolver:   resolver,
		explorer:   explorer,
		controller: controller,
		papers:     papers,
		analyzer:   analyzer,
	}
}

func status(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	code := status(err)
	if code == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
		http.Error(w, msg, code)
		return
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
