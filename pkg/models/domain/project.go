package domain

import "time"

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusFieldwork ProjectStatus = "fieldwork"
	ProjectStatusReview    ProjectStatus = "review"
	ProjectStatusReporting ProjectStatus = "reporting"
	ProjectStatusCompleted ProjectStatus = "completed"
)

func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{
		ProjectStatusPlanning,
		ProjectStatusFieldwork,
		ProjectStatusReview,
		ProjectStatusReporting,
		ProjectStatusCompleted,
	}
}

func (s ProjectStatus) Valid() bool {
	for _, st := range ProjectStatuses() {
		if st == s {
			return true
		}
	}
	return false
}

type Project struct {
	ID            string
	Title         string
	Status        ProjectStatus
	LeadAuditorID string
	StartDate     time.Time
	EndDate       time.Time

	// optional metadata
	Year        int
	Location    string
	Type        string
	StrategyRef string
	Department  string
}

type ProgrammeStatus string

const (
	ProgrammeStatusPending    ProgrammeStatus = "pending"
	ProgrammeStatusInProgress ProgrammeStatus = "in_progress"
	ProgrammeStatusCompleted  ProgrammeStatus = "completed"
)

func (s ProgrammeStatus) Valid() bool {
	switch s {
	case ProgrammeStatusPending, ProgrammeStatusInProgress, ProgrammeStatusCompleted:
		return true
	}
	return false
}

// Programme is a scoped area of testing within a project, e.g. "Payroll Process".
type Programme struct {
	ID        string
	ProjectID string
	Title     string
	Status    ProgrammeStatus
	AuditorID string
}
