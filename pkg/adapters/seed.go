package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/models/store"
)

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		// created_at is sometimes a full ISO timestamp
		t, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("bad date %q", value)}
	}
	return t, nil
}

func MapStoreProjectToDomain(r store.ProjectRecord) (domain.Project, error) {
	start, err := parseDate("project.start_date", r.StartDate)
	if err != nil {
		return domain.Project{}, err
	}
	end, err := parseDate("project.end_date", r.EndDate)
	if err != nil {
		return domain.Project{}, err
	}
	return domain.Project{
		ID:            r.ID,
		Title:         r.Title,
		Status:        domain.ProjectStatus(r.Status),
		LeadAuditorID: r.LeadAuditorID,
		StartDate:     start,
		EndDate:       end,
		Year:          r.Year,
		Location:      r.Location,
		Type:          r.Type,
		StrategyRef:   r.StrategyRef,
		Department:    r.Department,
	}, nil
}

func MapStoreProgrammeToDomain(r store.ProgrammeRecord) domain.Programme {
	return domain.Programme{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Title:     r.Title,
		Status:    domain.ProgrammeStatus(r.Status),
		AuditorID: r.AuditorID,
	}
}

func MapStoreWorkingPaperToDomain(r store.WorkingPaperRecord) (domain.WorkingPaper, error) {
	wp := domain.WorkingPaper{
		ID:             r.ID,
		ProgrammeID:    r.ProgrammeID,
		TestTitle:      r.TestTitle,
		TestProcedure:  r.TestProcedure,
		Status:         domain.TestStatus(r.Status),
		AuditorNotes:   r.AuditorNotes,
		EvidenceURLs:   r.EvidenceURLs,
		IssueID:        r.IssueID,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		AssigneeID:     r.AssigneeID,
	}
	if r.CompletedAt != "" {
		t, err := parseDate("working_paper.completed_at", r.CompletedAt)
		if err != nil {
			return domain.WorkingPaper{}, err
		}
		wp.CompletedAt = &t
	}
	return wp.Clone(), nil
}

func MapStoreIssueToDomain(r store.IssueRecord) (domain.Issue, error) {
	risk := domain.RiskLevelMedium
	if r.RiskLevel != "" {
		var err error
		if risk, err = domain.ParseRiskLevel(r.RiskLevel); err != nil {
			return domain.Issue{}, err
		}
	}
	status := domain.IssueStatus(r.Status)
	if status == "" {
		status = domain.IssueStatusOpen
	}
	created, err := parseDate("issue.created_at", r.CreatedAt)
	if err != nil {
		return domain.Issue{}, err
	}
	return domain.Issue{
		ID:                  r.ID,
		ProjectID:           r.ProjectID,
		WorkingPaperID:      r.WorkingPaperID,
		Title:               r.Title,
		Description:         r.Description,
		Finding:             r.Finding,
		Impact:              r.Impact,
		Recommendation:      r.Recommendation,
		RootCause:           r.RootCause,
		RiskLevel:           risk,
		Status:              status,
		CreatedAt:           created,
		AssignedToEmail:     r.AssignedToEmail,
		Department:          r.Department,
		RemediationTimeline: r.RemediationTimeline,
	}, nil
}
