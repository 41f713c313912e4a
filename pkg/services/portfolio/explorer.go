package portfolio

import (
	"context"
	"time"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/store/memory"
)

// Explorer serves the read-only portfolio screens: the project list, the
// issue tracker and the dashboard counters.
type Explorer interface {
	ListProjects(ctx context.Context) []domain.Project
	ListIssues(ctx context.Context, filter domain.IssueFilter) []domain.IssueRow
	GetIssue(ctx context.Context, id string) (domain.IssueRow, error)
	Dashboard(ctx context.Context) domain.Dashboard
}

type storeExplorer struct {
	store memory.Store
	now   func() time.Time
}

func NewExplorer(store memory.Store) Explorer {
	return &storeExplorer{store: store, now: time.Now}
}

func (e *storeExplorer) ListProjects(ctx context.Context) []domain.Project {
	return e.store.ListProjects(ctx)
}

func (e *storeExplorer) ListIssues(ctx context.Context, filter domain.IssueFilter) []domain.IssueRow {
	var issues []domain.Issue
	if filter.ProjectID != "" {
		issues = e.store.ListIssuesByProject(ctx, filter.ProjectID)
	} else {
		issues = e.store.ListIssues(ctx)
	}

	rows := make([]domain.IssueRow, 0, len(issues))
	for _, issue := range issues {
		if !filter.Match(issue) {
			continue
		}
		rows = append(rows, e.row(ctx, issue))
	}
	return rows
}

func (e *storeExplorer) GetIssue(ctx context.Context, id string) (domain.IssueRow, error) {
	issue, ok := e.store.GetIssueByID(ctx, id)
	if !ok {
		return domain.IssueRow{}, &domain.NotFoundError{Kind: domain.KindIssue, ID: id}
	}
	return e.row(ctx, issue), nil
}

func (e *storeExplorer) row(ctx context.Context, issue domain.Issue) domain.IssueRow {
	row := domain.IssueRow{Issue: issue}
	if issue.WorkingPaperID == "" {
		return row
	}
	if wp, ok := e.store.GetWorkingPaper(ctx, issue.WorkingPaperID); ok {
		row.WorkingPaperTitle = wp.TestTitle
	}
	return row
}

func (e *storeExplorer) Dashboard(ctx context.Context) domain.Dashboard {
	d := domain.Dashboard{
		GeneratedAt:      e.now(),
		ProjectsByStatus: map[domain.ProjectStatus]int{},
		IssuesByRisk:     map[domain.RiskLevel]int{},
		IssuesByStatus:   map[domain.IssueStatus]int{},
	}
	for _, s := range domain.ProjectStatuses() {
		d.ProjectsByStatus[s] = 0
	}
	for _, r := range domain.RiskLevels() {
		d.IssuesByRisk[r] = 0
	}

	for _, issue := range e.store.ListIssues(ctx) {
		d.IssuesByRisk[issue.RiskLevel]++
		d.IssuesByStatus[issue.Status]++
	}

	projects := e.store.ListProjects(ctx)
	d.Projects = make([]domain.ProjectProgress, 0, len(projects))
	for _, p := range projects {
		d.ProjectsByStatus[p.Status]++
		d.Projects = append(d.Projects, e.progress(ctx, p))
	}
	return d
}

func (e *storeExplorer) progress(ctx context.Context, p domain.Project) domain.ProjectProgress {
	pp := domain.ProjectProgress{
		ProjectID: p.ID,
		Title:     p.Title,
		Status:    p.Status,
		Issues:    len(e.store.ListIssuesByProject(ctx, p.ID)),
	}

	programmes := e.store.GetProgrammesByProject(ctx, p.ID)
	ids := make([]string, 0, len(programmes))
	for _, prog := range programmes {
		ids = append(ids, prog.ID)
	}
	for _, wp := range e.store.GetWorkingPapersByProgrammeIDs(ctx, ids) {
		switch wp.Status {
		case domain.TestStatusPass:
			pp.Passed++
		case domain.TestStatusFail:
			pp.Failed++
		case domain.TestStatusNA:
			pp.NA++
		default:
			pp.Pending++
		}
	}
	if total := pp.Total(); total > 0 {
		pp.Progress = (total - pp.Pending) * 100 / total
	}
	return pp
}
