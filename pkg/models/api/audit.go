package api

import "time"

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

type Project struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	LeadAuditorID string `json:"lead_auditor_id"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	Year          int    `json:"year,omitempty"`
	Location      string `json:"location,omitempty"`
	Type          string `json:"type,omitempty"`
	StrategyRef   string `json:"strategy_ref,omitempty"`
	Department    string `json:"department,omitempty"`
}

type Programme struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	Title         string         `json:"title"`
	Status        string         `json:"status"`
	AuditorID     string         `json:"auditor_id"`
	WorkingPapers []WorkingPaper `json:"working_papers"`
}

type WorkingPaper struct {
	ID             string     `json:"id"`
	ProgrammeID    string     `json:"programme_id"`
	TestTitle      string     `json:"test_title"`
	TestProcedure  string     `json:"test_procedure"`
	Status         string     `json:"status"`
	AuditorNotes   string     `json:"auditor_notes,omitempty"`
	EvidenceURLs   []string   `json:"evidence_urls,omitempty"`
	IssueID        string     `json:"issue_id,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	AssigneeID     string     `json:"assignee_id,omitempty"`
}

type Issue struct {
	ID                  string    `json:"id"`
	ProjectID           string    `json:"project_id"`
	WorkingPaperID      string    `json:"working_paper_id,omitempty"`
	WorkingPaperTitle   string    `json:"working_paper_title,omitempty"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	Finding             string    `json:"finding,omitempty"`
	Impact              string    `json:"impact,omitempty"`
	Recommendation      string    `json:"recommendation,omitempty"`
	RootCause           string    `json:"root_cause,omitempty"`
	RiskLevel           RiskLevel `json:"risk_level"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	AssignedToEmail     string    `json:"assigned_to_email,omitempty"`
	Department          string    `json:"department,omitempty"`
	RemediationTimeline string    `json:"remediation_timeline,omitempty"`
}

type ProjectDetail struct {
	Project    Project     `json:"project"`
	Programmes []Programme `json:"programmes"`
	Issues     []Issue     `json:"issues"`
}

type IssueDraft struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Finding             string     `json:"finding"`
	Impact              string     `json:"impact"`
	Recommendation      string     `json:"recommendation"`
	RootCause           string     `json:"root_cause"`
	RiskLevel           string     `json:"risk_level"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	AssignedToEmail     string     `json:"assigned_to_email"`
	Department          string     `json:"department"`
	RemediationTimeline string     `json:"remediation_timeline"`
}

type StatusChangeRequest struct {
	Status string      `json:"status"`
	Issue  *IssueDraft `json:"issue,omitempty"`
}

type WorkingPaperPatch struct {
	AuditorNotes   *string  `json:"auditor_notes,omitempty"`
	EvidenceURLs   []string `json:"evidence_urls,omitempty"`
	AssigneeID     *string  `json:"assignee_id,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
}

type Transition struct {
	WorkingPaper    WorkingPaper `json:"working_paper"`
	PreviousStatus  string       `json:"previous_status"`
	Issue           *Issue       `json:"issue,omitempty"`
	OrphanedIssueID string       `json:"orphaned_issue_id,omitempty"`
}

type ProjectProgress struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Pending   int    `json:"pending"`
	Passed    int    `json:"passed"`
	Failed    int    `json:"failed"`
	NA        int    `json:"na"`
	Issues    int    `json:"issues"`
	Progress  int    `json:"progress"`
}

type Dashboard struct {
	GeneratedAt      time.Time         `json:"generated_at"`
	ProjectsByStatus map[string]int    `json:"projects_by_status"`
	IssuesByRisk     map[string]int    `json:"issues_by_risk"`
	IssuesByStatus   map[string]int    `json:"issues_by_status"`
	Projects         []ProjectProgress `json:"projects"`
}

type AnalysisRequest struct {
	Findings string `json:"findings"`
}

type Analysis struct {
	Summary                string   `json:"summary"`
	RiskRating             string   `json:"riskRating"`
	SuggestedRemediation   []string `json:"suggestedRemediation"`
	ComplianceImplications string   `json:"complianceImplications"`
}

type ReportDraft struct {
	ProjectID string `json:"project_id"`
	Draft     string `json:"draft"`
}
