package adapters

import (
	"time"

	"github.com/de-tools/audit-atlas/pkg/models/api"
	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

const dateLayout = "2006-01-02"

func MapRiskLevelDomainToApi(r domain.RiskLevel) api.RiskLevel {
	switch r {
	case domain.RiskLevelLow:
		return api.RiskLevelLow
	case domain.RiskLevelMedium:
		return api.RiskLevelMedium
	case domain.RiskLevelHigh:
		return api.RiskLevelHigh
	case domain.RiskLevelCritical:
		return api.RiskLevelCritical
	default:
		return api.RiskLevelLow
	}
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func MapProjectDomainToApi(p domain.Project) api.Project {
	return api.Project{
		ID:            p.ID,
		Title:         p.Title,
		Status:        string(p.Status),
		LeadAuditorID: p.LeadAuditorID,
		StartDate:     formatDate(p.StartDate),
		EndDate:       formatDate(p.EndDate),
		Year:          p.Year,
		Location:      p.Location,
		Type:          p.Type,
		StrategyRef:   p.StrategyRef,
		Department:    p.Department,
	}
}

func MapWorkingPaperDomainToApi(wp domain.WorkingPaper) api.WorkingPaper {
	wp = wp.Clone()
	return api.WorkingPaper{
		ID:             wp.ID,
		ProgrammeID:    wp.ProgrammeID,
		TestTitle:      wp.TestTitle,
		TestProcedure:  wp.TestProcedure,
		Status:         string(wp.Status),
		AuditorNotes:   wp.AuditorNotes,
		EvidenceURLs:   wp.EvidenceURLs,
		IssueID:        wp.IssueID,
		CompletedAt:    wp.CompletedAt,
		EstimatedHours: wp.EstimatedHours,
		ActualHours:    wp.ActualHours,
		AssigneeID:     wp.AssigneeID,
	}
}

func MapProgrammeNodeDomainToApi(n domain.ProgrammeNode) api.Programme {
	res := api.Programme{
		ID:            n.Programme.ID,
		ProjectID:     n.Programme.ProjectID,
		Title:         n.Programme.Title,
		Status:        string(n.Programme.Status),
		AuditorID:     n.Programme.AuditorID,
		WorkingPapers: make([]api.WorkingPaper, 0, len(n.WorkingPapers)),
	}
	for _, wp := range n.WorkingPapers {
		res.WorkingPapers = append(res.WorkingPapers, MapWorkingPaperDomainToApi(wp))
	}
	return res
}

func MapProgrammeNodesDomainToApi(nodes []domain.ProgrammeNode) []api.Programme {
	res := make([]api.Programme, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, MapProgrammeNodeDomainToApi(n))
	}
	return res
}

func MapIssueDomainToApi(i domain.Issue) api.Issue {
	return api.Issue{
		ID:                  i.ID,
		ProjectID:           i.ProjectID,
		WorkingPaperID:      i.WorkingPaperID,
		Title:               i.Title,
		Description:         i.Description,
		Finding:             i.Finding,
		Impact:              i.Impact,
		Recommendation:      i.Recommendation,
		RootCause:           i.RootCause,
		RiskLevel:           MapRiskLevelDomainToApi(i.RiskLevel),
		Status:              string(i.Status),
		CreatedAt:           i.CreatedAt,
		AssignedToEmail:     i.AssignedToEmail,
		Department:          i.Department,
		RemediationTimeline: i.RemediationTimeline,
	}
}

func MapIssueRowDomainToApi(r domain.IssueRow) api.Issue {
	res := MapIssueDomainToApi(r.Issue)
	res.WorkingPaperTitle = r.WorkingPaperTitle
	return res
}

func MapProjectViewDomainToApi(v domain.ProjectView) api.ProjectDetail {
	res := api.ProjectDetail{
		Project:    MapProjectDomainToApi(v.Project),
		Programmes: MapProgrammeNodesDomainToApi(v.Programmes),
		Issues:     make([]api.Issue, 0, len(v.Issues)),
	}
	for _, i := range v.Issues {
		res.Issues = append(res.Issues, MapIssueDomainToApi(i))
	}
	return res
}

func MapTransitionDomainToApi(t domain.Transition) api.Transition {
	res := api.Transition{
		WorkingPaper:    MapWorkingPaperDomainToApi(t.WorkingPaper),
		PreviousStatus:  string(t.PreviousStatus),
		OrphanedIssueID: t.OrphanedIssueID,
	}
	if t.Issue != nil {
		issue := MapIssueDomainToApi(*t.Issue)
		res.Issue = &issue
	}
	return res
}

func MapIssueDraftApiToDomain(d *api.IssueDraft) *domain.IssueDraft {
	if d == nil {
		return nil
	}
	return &domain.IssueDraft{
		Title:               d.Title,
		Description:         d.Description,
		Finding:             d.Finding,
		Impact:              d.Impact,
		Recommendation:      d.Recommendation,
		RootCause:           d.RootCause,
		RiskLevel:           d.RiskLevel,
		CreatedAt:           d.CreatedAt,
		AssignedToEmail:     d.AssignedToEmail,
		Department:          d.Department,
		RemediationTimeline: d.RemediationTimeline,
	}
}

func MapWorkingPaperPatchApiToDomain(p api.WorkingPaperPatch) domain.WorkingPaperPatch {
	return domain.WorkingPaperPatch{
		AuditorNotes:   p.AuditorNotes,
		EvidenceURLs:   p.EvidenceURLs,
		AssigneeID:     p.AssigneeID,
		EstimatedHours: p.EstimatedHours,
		ActualHours:    p.ActualHours,
	}
}

func MapDashboardDomainToApi(d domain.Dashboard) api.Dashboard {
	res := api.Dashboard{
		GeneratedAt:      d.GeneratedAt,
		ProjectsByStatus: map[string]int{},
		IssuesByRisk:     map[string]int{},
		IssuesByStatus:   map[string]int{},
		Projects:         make([]api.ProjectProgress, 0, len(d.Projects)),
	}
	for k, v := range d.ProjectsByStatus {
		res.ProjectsByStatus[string(k)] = v
	}
	for k, v := range d.IssuesByRisk {
		res.IssuesByRisk[string(MapRiskLevelDomainToApi(k))] = v
	}
	for k, v := range d.IssuesByStatus {
		res.IssuesByStatus[string(k)] = v
	}
	for _, p := range d.Projects {
		res.Projects = append(res.Projects, api.ProjectProgress{
			ProjectID: p.ProjectID,
			Title:     p.Title,
			Status:    string(p.Status),
			Pending:   p.Pending,
			Passed:    p.Passed,
			Failed:    p.Failed,
			NA:        p.NA,
			Issues:    p.Issues,
			Progress:  p.Progress,
		})
	}
	return res
}

func MapAnalysisDomainToApi(a domain.Analysis) api.Analysis {
	remediation := a.SuggestedRemediation
	if remediation == nil {
		remediation = []string{}
	}
	return api.Analysis{
		Summary:                a.Summary,
		RiskRating:             a.RiskRating,
		SuggestedRemediation:   remediation,
		ComplianceImplications: a.ComplianceImplications,
	}
}
