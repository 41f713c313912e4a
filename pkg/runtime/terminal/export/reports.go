package export

import (
	"fmt"
	"strconv"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

func ProjectsReport(projects []domain.Project) *domain.Report {
	section := domain.ReportSection{
		Title:   "Projects",
		Summary: map[string]interface{}{"Total": len(projects)},
		Details: make([]domain.ReportDetail, 0, len(projects)),
	}
	for _, p := range projects {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        p.ID,
			Value:       p.Title,
			Unit:        string(p.Status),
			Description: p.LeadAuditorID,
		})
	}
	return &domain.Report{Title: "Audit portfolio", Sections: []domain.ReportSection{section}}
}

// TreeReport lays out a project drill-down: one section per programme and a
// closing section for the project's issues.
func TreeReport(view domain.ProjectView) *domain.Report {
	report := &domain.Report{
		Title:    fmt.Sprintf("%s: %s [%s]", view.Project.ID, view.Project.Title, view.Project.Status),
		Sections: make([]domain.ReportSection, 0, len(view.Programmes)+1),
	}
	for _, node := range view.Programmes {
		section := domain.ReportSection{
			Title: fmt.Sprintf("%s %s", node.Programme.ID, node.Programme.Title),
			Summary: map[string]interface{}{
				"Auditor": node.Programme.AuditorID,
				"Status":  string(node.Programme.Status),
			},
		}
		for _, wp := range node.WorkingPapers {
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        wp.ID,
				Value:       wp.TestTitle,
				Unit:        string(wp.Status),
				Description: wp.IssueID,
			})
		}
		report.Sections = append(report.Sections, section)
	}

	issues := domain.ReportSection{
		Title:   "Issues",
		Summary: map[string]interface{}{"Total": len(view.Issues)},
	}
	for _, i := range view.Issues {
		issues.Details = append(issues.Details, issueDetail(i, i.WorkingPaperID))
	}
	report.Sections = append(report.Sections, issues)
	return report
}

func IssuesReport(rows []domain.IssueRow) *domain.Report {
	section := domain.ReportSection{
		Title:   "Issue tracker",
		Summary: map[string]interface{}{"Total": len(rows)},
	}
	for _, r := range rows {
		section.Details = append(section.Details, issueDetail(r.Issue, r.WorkingPaperTitle))
	}
	return &domain.Report{Title: "Issues", Sections: []domain.ReportSection{section}}
}

func issueDetail(i domain.Issue, source string) domain.ReportDetail {
	return domain.ReportDetail{
		Name:        i.ID,
		Value:       i.Title,
		Unit:        i.RiskLevel.String(),
		Description: fmt.Sprintf("%s %s", i.Status, source),
	}
}

func DashboardReport(d domain.Dashboard) *domain.Report {
	overview := domain.ReportSection{
		Title:   "Overview",
		Summary: map[string]interface{}{"Generated": d.GeneratedAt.Format("2006-01-02 15:04")},
	}
	for _, s := range domain.ProjectStatuses() {
		overview.Details = append(overview.Details, domain.ReportDetail{
			Name: "projects", Value: d.ProjectsByStatus[s], Unit: string(s),
		})
	}
	for _, r := range domain.RiskLevels() {
		overview.Details = append(overview.Details, domain.ReportDetail{
			Name: "issues", Value: d.IssuesByRisk[r], Unit: r.String(),
		})
	}

	progress := domain.ReportSection{Title: "Fieldwork progress"}
	for _, p := range d.Projects {
		progress.Details = append(progress.Details, domain.ReportDetail{
			Name:  p.ProjectID,
			Value: p.Title,
			Unit:  strconv.Itoa(p.Progress) + "%",
			Description: fmt.Sprintf("pass %d fail %d n/a %d pending %d, %d issues",
				p.Passed, p.Failed, p.NA, p.Pending, p.Issues),
		})
	}
	return &domain.Report{Title: "Dashboard", Sections: []domain.ReportSection{overview, progress}}
}

func TransitionReport(t domain.Transition) *domain.Report {
	wp := t.WorkingPaper
	section := domain.ReportSection{
		Title: fmt.Sprintf("%s %s", wp.ID, wp.TestTitle),
		Summary: map[string]interface{}{
			"Previous status": string(t.PreviousStatus),
			"Status":          string(wp.Status),
		},
	}
	if t.Issue != nil {
		section.Details = append(section.Details, issueDetail(*t.Issue, wp.ID))
	}
	if t.OrphanedIssueID != "" {
		section.Summary["Unlinked issue"] = t.OrphanedIssueID
	}
	return &domain.Report{Title: "Working paper updated", Sections: []domain.ReportSection{section}}
}

func AnalysisReport(a domain.Analysis) *domain.Report {
	section := domain.ReportSection{
		Title: "AI analysis",
		Summary: map[string]interface{}{
			"Summary":     a.Summary,
			"Risk rating": a.RiskRating,
			"Compliance":  a.ComplianceImplications,
		},
	}
	for n, step := range a.SuggestedRemediation {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        "step " + strconv.Itoa(n+1),
			Value:       step,
			Description: "suggested remediation",
		})
	}
	return &domain.Report{Title: "Findings analysis", Sections: []domain.ReportSection{section}}
}
