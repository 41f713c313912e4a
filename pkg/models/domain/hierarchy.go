package domain

// ProgrammeNode is one programme with the working papers it owns.
type ProgrammeNode struct {
	Programme     Programme
	WorkingPapers []WorkingPaper
}

// ProjectView is the drill-down of a selected project.
type ProjectView struct {
	Project    Project
	Programmes []ProgrammeNode
	Issues     []Issue
}

// IssueRow is an issue joined with the title of the working paper it came from.
type IssueRow struct {
	Issue             Issue
	WorkingPaperTitle string
}

// IssueFilter narrows the issue tracker. Zero values match everything.
type IssueFilter struct {
	ProjectID string
	Status    IssueStatus
	MinRisk   *RiskLevel
}

func (f IssueFilter) Match(i Issue) bool {
	if f.ProjectID != "" && i.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.MinRisk != nil && i.RiskLevel < *f.MinRisk {
		return false
	}
	return true
}
