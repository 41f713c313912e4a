package domain

import "time"

// Dashboard aggregates portfolio-level counters over the whole store.
type Dashboard struct {
	GeneratedAt      time.Time
	ProjectsByStatus map[ProjectStatus]int
	IssuesByRisk     map[RiskLevel]int
	IssuesByStatus   map[IssueStatus]int
	Projects         []ProjectProgress
}

// ProjectProgress counts working-paper outcomes for one project.
type ProjectProgress struct {
	ProjectID string
	Title     string
	Status    ProjectStatus
	Pending   int
	Passed    int
	Failed    int
	NA        int
	Issues    int
	// Progress is the share of non-pending working papers, 0..100.
	Progress int
}

func (p ProjectProgress) Total() int {
	return p.Pending + p.Passed + p.Failed + p.NA
}

// Report represents a complete rendered report
type Report struct {
	Title    string
	Sections []ReportSection
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
