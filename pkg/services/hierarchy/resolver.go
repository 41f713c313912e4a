package hierarchy

import (
	"context"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/store/memory"
)

// Resolver computes the drill-down subtree of a project. It only reads.
type Resolver interface {
	// Resolve returns the project's programmes in insertion order, each with its
	// working papers. An unknown project yields an empty slice.
	Resolve(ctx context.Context, projectID string) []domain.ProgrammeNode
	// SelectProject returns the project with its subtree and issues.
	SelectProject(ctx context.Context, projectID string) (domain.ProjectView, error)
}

type storeResolver struct {
	store memory.Store
}

func NewResolver(store memory.Store) Resolver {
	return &storeResolver{store: store}
}

func (r *storeResolver) Resolve(ctx context.Context, projectID string) []domain.ProgrammeNode {
	programmes := r.store.GetProgrammesByProject(ctx, projectID)
	nodes := make([]domain.ProgrammeNode, 0, len(programmes))
	if len(programmes) == 0 {
		return nodes
	}

	ids := make([]string, 0, len(programmes))
	index := make(map[string]int, len(programmes))
	for i, p := range programmes {
		ids = append(ids, p.ID)
		index[p.ID] = i
		nodes = append(nodes, domain.ProgrammeNode{
			Programme:     p,
			WorkingPapers: []domain.WorkingPaper{},
		})
	}

	for _, wp := range r.store.GetWorkingPapersByProgrammeIDs(ctx, ids) {
		i := index[wp.ProgrammeID]
		nodes[i].WorkingPapers = append(nodes[i].WorkingPapers, wp)
	}
	return nodes
}

func (r *storeResolver) SelectProject(ctx context.Context, projectID string) (domain.ProjectView, error) {
	project, ok := r.store.GetProject(ctx, projectID)
	if !ok {
		return domain.ProjectView{}, &domain.NotFoundError{Kind: domain.KindProject, ID: projectID}
	}

	return domain.ProjectView{
		Project:    project,
		Programmes: r.Resolve(ctx, projectID),
		Issues:     r.store.ListIssuesByProject(ctx, projectID),
	}, nil
}
