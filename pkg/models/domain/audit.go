package domain

import (
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is the version of the Issue/WorkingPaper superset shape.
// v1 carried a single description, v2 split it into finding/impact/recommendation,
// v3 added root cause, department and remediation timeline.
const SchemaVersion = 3

type RiskLevel int

const (
	RiskLevelLow RiskLevel = iota
	RiskLevelMedium
	RiskLevelHigh
	RiskLevelCritical
)

var riskLevelNames = []string{"low", "medium", "high", "critical"}

func (r RiskLevel) String() string {
	if r < RiskLevelLow || r > RiskLevelCritical {
		return fmt.Sprintf("risk(%d)", int(r))
	}
	return riskLevelNames[r]
}

// ParseRiskLevel accepts the lower-case names as well as the capitalised
// labels shown in the UI ("High", "Critical").
func ParseRiskLevel(s string) (RiskLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range riskLevelNames {
		if n == name {
			return RiskLevel(i), nil
		}
	}
	return RiskLevelLow, &ValidationError{Field: "risk_level", Reason: fmt.Sprintf("unknown risk level %q", s)}
}

func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical}
}

type IssueStatus string

const (
	IssueStatusOpen               IssueStatus = "open"
	IssueStatusManagementResponse IssueStatus = "management_response"
	IssueStatusClosed             IssueStatus = "closed"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusManagementResponse, IssueStatusClosed:
		return true
	}
	return false
}

// Issue is a recorded finding. ProjectID is a strong reference; WorkingPaperID is
// the weak back-reference to the paper that surfaced it, if any.
type Issue struct {
	ID             string
	ProjectID      string
	WorkingPaperID string
	Title          string
	Description    string // v1 single-field description
	Finding        string
	Impact         string
	Recommendation string
	RootCause      string
	RiskLevel      RiskLevel
	Status         IssueStatus
	CreatedAt      time.Time

	AssignedToEmail     string
	Department          string
	RemediationTimeline string
}

// IssueDraft carries the user-entered part of an issue raised from a failed test.
type IssueDraft struct {
	Title          string
	Description    string
	Finding        string
	Impact         string
	Recommendation string
	RootCause      string
	RiskLevel      string
	CreatedAt      *time.Time

	AssignedToEmail     string
	Department          string
	RemediationTimeline string
}

// Analysis is the structured reply of the AI findings analysis.
type Analysis struct {
	Summary                string
	RiskRating             string
	SuggestedRemediation   []string
	ComplianceImplications string
}
