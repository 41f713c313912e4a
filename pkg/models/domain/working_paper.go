package domain

import "time"

type TestStatus string

const (
	TestStatusPending TestStatus = "pending"
	TestStatusPass    TestStatus = "pass"
	TestStatusFail    TestStatus = "fail"
	TestStatusNA      TestStatus = "n/a"
)

func (s TestStatus) Valid() bool {
	switch s {
	case TestStatusPending, TestStatusPass, TestStatusFail, TestStatusNA:
		return true
	}
	return false
}

// Outcome reports whether s is one of the statuses a test can be moved to.
func (s TestStatus) Outcome() bool {
	return s == TestStatusPass || s == TestStatusFail || s == TestStatusNA
}

type WorkingPaper struct {
	ID            string
	ProgrammeID   string
	TestTitle     string
	TestProcedure string
	Status        TestStatus
	AuditorNotes  string
	EvidenceURLs  []string
	IssueID       string
	CompletedAt   *time.Time

	EstimatedHours *float64
	ActualHours    *float64
	AssigneeID     string
}

// Clone returns a copy that shares no slices or pointers with wp.
func (wp WorkingPaper) Clone() WorkingPaper {
	out := wp
	if wp.EvidenceURLs != nil {
		out.EvidenceURLs = append([]string{}, wp.EvidenceURLs...)
	}
	if wp.CompletedAt != nil {
		t := *wp.CompletedAt
		out.CompletedAt = &t
	}
	if wp.EstimatedHours != nil {
		h := *wp.EstimatedHours
		out.EstimatedHours = &h
	}
	if wp.ActualHours != nil {
		h := *wp.ActualHours
		out.ActualHours = &h
	}
	return out
}

// WorkingPaperPatch lists the fields a caller may change directly. Status and
// the issue link are only changed through the status transition handler.
type WorkingPaperPatch struct {
	AuditorNotes   *string
	EvidenceURLs   []string
	AssigneeID     *string
	EstimatedHours *float64
	ActualHours    *float64
}

func (p WorkingPaperPatch) Apply(wp *WorkingPaper) {
	if p.AuditorNotes != nil {
		wp.AuditorNotes = *p.AuditorNotes
	}
	if p.EvidenceURLs != nil {
		wp.EvidenceURLs = append([]string{}, p.EvidenceURLs...)
	}
	if p.AssigneeID != nil {
		wp.AssigneeID = *p.AssigneeID
	}
	if p.EstimatedHours != nil {
		h := *p.EstimatedHours
		wp.EstimatedHours = &h
	}
	if p.ActualHours != nil {
		h := *p.ActualHours
		wp.ActualHours = &h
	}
}
