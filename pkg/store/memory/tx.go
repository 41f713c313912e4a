package memory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

var errTxClosed = errors.New("transaction already finished")

// memTx mutates the store in place and records an undo step per mutation.
type memTx struct {
	s    *memStore
	undo []func()
	done bool
}

func (tx *memTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *memTx) GetProject(id string) (domain.Project, bool) {
	p, ok := tx.s.projects[id]
	return p, ok
}

func (tx *memTx) GetProgramme(id string) (domain.Programme, bool) {
	p, ok := tx.s.programmes[id]
	return p, ok
}

func (tx *memTx) GetWorkingPaper(id string) (domain.WorkingPaper, bool) {
	wp, ok := tx.s.papers[id]
	if !ok {
		return domain.WorkingPaper{}, false
	}
	return wp.Clone(), true
}

func (tx *memTx) GetIssueByID(id string) (domain.Issue, bool) {
	i, ok := tx.s.issues[id]
	return i, ok
}

func (tx *memTx) NextIssueID() string {
	return tx.s.nextIssueID()
}

func (tx *memTx) AppendIssue(issue domain.Issue) error {
	if tx.done {
		return errTxClosed
	}
	s := tx.s
	if err := validateIssue(issue); err != nil {
		return err
	}
	if _, ok := s.issues[issue.ID]; ok {
		return &domain.DuplicateIDError{Kind: domain.KindIssue, ID: issue.ID}
	}
	if _, ok := s.projects[issue.ProjectID]; !ok {
		return &domain.NotFoundError{Kind: domain.KindProject, ID: issue.ProjectID}
	}
	if issue.WorkingPaperID != "" {
		if _, ok := s.papers[issue.WorkingPaperID]; !ok {
			return &domain.NotFoundError{Kind: domain.KindWorkingPaper, ID: issue.WorkingPaperID}
		}
	}

	prevSeq := s.issueSeq
	s.issues[issue.ID] = issue
	s.issueOrder = append(s.issueOrder, issue.ID)
	s.observeIssueID(issue.ID)

	tx.undo = append(tx.undo, func() {
		delete(s.issues, issue.ID)
		s.issueOrder = s.issueOrder[:len(s.issueOrder)-1]
		s.issueSeq = prevSeq
	})
	return nil
}

// ReplaceIssue overwrites an existing issue. The owning project and the
// working paper back-reference cannot change.
func (tx *memTx) ReplaceIssue(issue domain.Issue) error {
	if tx.done {
		return errTxClosed
	}
	s := tx.s
	prev, ok := s.issues[issue.ID]
	if !ok {
		return &domain.NotFoundError{Kind: domain.KindIssue, ID: issue.ID}
	}
	if err := validateIssue(issue); err != nil {
		return err
	}
	if issue.ProjectID != prev.ProjectID {
		return &domain.ValidationError{Field: "issue.project_id", Reason: "cannot be changed"}
	}
	if issue.WorkingPaperID != prev.WorkingPaperID {
		return &domain.ValidationError{Field: "issue.working_paper_id", Reason: "cannot be changed"}
	}

	s.issues[issue.ID] = issue
	tx.undo = append(tx.undo, func() {
		s.issues[issue.ID] = prev
	})
	return nil
}

// PutWorkingPaper overwrites an existing working paper. When the paper links
// an issue, the issue must exist and point back at the paper.
func (tx *memTx) PutWorkingPaper(wp domain.WorkingPaper) error {
	if tx.done {
		return errTxClosed
	}
	s := tx.s
	prev, ok := s.papers[wp.ID]
	if !ok {
		return &domain.NotFoundError{Kind: domain.KindWorkingPaper, ID: wp.ID}
	}
	if wp.ProgrammeID != prev.ProgrammeID {
		return &domain.ValidationError{Field: "working_paper.programme_id", Reason: "cannot be changed"}
	}
	if !wp.Status.Valid() {
		return &domain.ValidationError{Field: "working_paper.status", Reason: fmt.Sprintf("unknown status %q", wp.Status)}
	}
	if wp.IssueID != "" {
		if err := s.checkBackReference(wp.ID, wp.IssueID); err != nil {
			return err
		}
	}

	s.papers[wp.ID] = wp.Clone()
	tx.undo = append(tx.undo, func() {
		s.papers[wp.ID] = prev
	})
	return nil
}

func (tx *memTx) SetProjectStatus(id string, status domain.ProjectStatus) error {
	if tx.done {
		return errTxClosed
	}
	s := tx.s
	prev, ok := s.projects[id]
	if !ok {
		return &domain.NotFoundError{Kind: domain.KindProject, ID: id}
	}
	if !status.Valid() {
		return &domain.ValidationError{Field: "project.status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	next := prev
	next.Status = status
	s.projects[id] = next
	tx.undo = append(tx.undo, func() {
		s.projects[id] = prev
	})
	return nil
}

func validateIssue(issue domain.Issue) error {
	if strings.TrimSpace(issue.ID) == "" {
		return &domain.ValidationError{Field: "issue.id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(issue.Title) == "" {
		return &domain.ValidationError{Field: "issue.title", Reason: "must not be empty"}
	}
	if !issue.Status.Valid() {
		return &domain.ValidationError{Field: "issue.status", Reason: fmt.Sprintf("unknown status %q", issue.Status)}
	}
	if issue.RiskLevel < domain.RiskLevelLow || issue.RiskLevel > domain.RiskLevelCritical {
		return &domain.ValidationError{Field: "issue.risk_level", Reason: fmt.Sprintf("out of range: %d", issue.RiskLevel)}
	}
	return nil
}
