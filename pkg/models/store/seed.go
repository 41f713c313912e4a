package store

// Seed is the on-disk shape of the fixture data the store is built from.
// Dates are kept as "2006-01-02" strings, as in the source fixtures.
type Seed struct {
	Version       int                  `yaml:"version"`
	Projects      []ProjectRecord      `yaml:"projects"`
	Programmes    []ProgrammeRecord    `yaml:"programmes"`
	WorkingPapers []WorkingPaperRecord `yaml:"working_papers"`
	Issues        []IssueRecord        `yaml:"issues"`
}

type ProjectRecord struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Status        string `yaml:"status"`
	LeadAuditorID string `yaml:"lead_auditor_id"`
	StartDate     string `yaml:"start_date"`
	EndDate       string `yaml:"end_date"`
	Year          int    `yaml:"year,omitempty"`
	Location      string `yaml:"location,omitempty"`
	Type          string `yaml:"type,omitempty"`
	StrategyRef   string `yaml:"strategy_ref,omitempty"`
	Department    string `yaml:"department,omitempty"`
}

type ProgrammeRecord struct {
	ID        string `yaml:"id"`
	ProjectID string `yaml:"project_id"`
	Title     string `yaml:"title"`
	Status    string `yaml:"status"`
	AuditorID string `yaml:"auditor_id"`
}

type WorkingPaperRecord struct {
	ID             string   `yaml:"id"`
	ProgrammeID    string   `yaml:"programme_id"`
	TestTitle      string   `yaml:"test_title"`
	TestProcedure  string   `yaml:"test_procedure"`
	Status         string   `yaml:"status"`
	AuditorNotes   string   `yaml:"auditor_notes,omitempty"`
	EvidenceURLs   []string `yaml:"evidence_urls,omitempty"`
	IssueID        string   `yaml:"issue_id,omitempty"`
	CompletedAt    string   `yaml:"completed_at,omitempty"`
	EstimatedHours *float64 `yaml:"estimated_hours,omitempty"`
	ActualHours    *float64 `yaml:"actual_hours,omitempty"`
	AssigneeID     string   `yaml:"assignee_id,omitempty"`
}

type IssueRecord struct {
	ID                  string `yaml:"id"`
	ProjectID           string `yaml:"project_id"`
	WorkingPaperID      string `yaml:"working_paper_id,omitempty"`
	Title               string `yaml:"title"`
	Description         string `yaml:"description,omitempty"`
	Finding             string `yaml:"finding,omitempty"`
	Impact              string `yaml:"impact,omitempty"`
	Recommendation      string `yaml:"recommendation,omitempty"`
	RootCause           string `yaml:"root_cause,omitempty"`
	RiskLevel           string `yaml:"risk_level"`
	Status              string `yaml:"status"`
	CreatedAt           string `yaml:"created_at"`
	AssignedToEmail     string `yaml:"assigned_to_email,omitempty"`
	Department          string `yaml:"department,omitempty"`
	RemediationTimeline string `yaml:"remediation_timeline,omitempty"`
}
