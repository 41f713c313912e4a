package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

const (
	issueIDPrefix = "ISSUE-"
	issueIDFormat = issueIDPrefix + "%03d"
)

// Store holds the four audit collections for the lifetime of the process.
// Reads return copies in insertion order and report "no match" as an empty
// slice or a false flag, never as an error.
type Store interface {
	GetProject(ctx context.Context, id string) (domain.Project, bool)
	ListProjects(ctx context.Context) []domain.Project
	GetProgramme(ctx context.Context, id string) (domain.Programme, bool)
	GetProgrammesByProject(ctx context.Context, projectID string) []domain.Programme
	GetWorkingPaper(ctx context.Context, id string) (domain.WorkingPaper, bool)
	GetWorkingPapersByProgrammeIDs(ctx context.Context, ids []string) []domain.WorkingPaper
	GetIssueByID(ctx context.Context, id string) (domain.Issue, bool)
	ListIssues(ctx context.Context) []domain.Issue
	ListIssuesByProject(ctx context.Context, projectID string) []domain.Issue

	AddProject(ctx context.Context, p domain.Project) error
	AddProgramme(ctx context.Context, p domain.Programme) error
	AddWorkingPaper(ctx context.Context, wp domain.WorkingPaper) error
	AppendIssue(ctx context.Context, issue domain.Issue) error
	UpdateWorkingPaper(ctx context.Context, id string, patch domain.WorkingPaperPatch) (domain.WorkingPaper, error)
	UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) (domain.Project, error)

	// NextIssueID returns the id the next sequential issue would get.
	NextIssueID(ctx context.Context) string

	// Update runs fn under the store's write lock. If fn returns an error every
	// mutation made through tx is rolled back.
	Update(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the mutation surface available inside Update.
type Tx interface {
	GetProject(id string) (domain.Project, bool)
	GetProgramme(id string) (domain.Programme, bool)
	GetWorkingPaper(id string) (domain.WorkingPaper, bool)
	GetIssueByID(id string) (domain.Issue, bool)
	NextIssueID() string

	AppendIssue(issue domain.Issue) error
	ReplaceIssue(issue domain.Issue) error
	PutWorkingPaper(wp domain.WorkingPaper) error
	SetProjectStatus(id string, status domain.ProjectStatus) error
}

type memStore struct {
	mu sync.RWMutex

	projects     map[string]domain.Project
	projectOrder []string

	programmes     map[string]domain.Programme
	programmeOrder []string

	papers     map[string]domain.WorkingPaper
	paperOrder []string

	issues     map[string]domain.Issue
	issueOrder []string

	// issueSeq is the highest sequence number handed out or observed so far.
	issueSeq int
}

func NewStore() Store {
	return &memStore{
		projects:   make(map[string]domain.Project),
		programmes: make(map[string]domain.Programme),
		papers:     make(map[string]domain.WorkingPaper),
		issues:     make(map[string]domain.Issue),
	}
}

func (s *memStore) GetProject(_ context.Context, id string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	return p, ok
}

func (s *memStore) ListProjects(_ context.Context) []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Project, 0, len(s.projectOrder))
	for _, id := range s.projectOrder {
		out = append(out, s.projects[id])
	}
	return out
}

func (s *memStore) GetProgramme(_ context.Context, id string) (domain.Programme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programmes[id]
	return p, ok
}

func (s *memStore) GetProgrammesByProject(_ context.Context, projectID string) []domain.Programme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Programme{}
	for _, id := range s.programmeOrder {
		if p := s.programmes[id]; p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) GetWorkingPaper(_ context.Context, id string) (domain.WorkingPaper, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wp, ok := s.papers[id]
	if !ok {
		return domain.WorkingPaper{}, false
	}
	return wp.Clone(), true
}

func (s *memStore) GetWorkingPapersByProgrammeIDs(_ context.Context, ids []string) []domain.WorkingPaper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := []domain.WorkingPaper{}
	for _, id := range s.paperOrder {
		wp := s.papers[id]
		if _, ok := wanted[wp.ProgrammeID]; ok {
			out = append(out, wp.Clone())
		}
	}
	return out
}

func (s *memStore) GetIssueByID(_ context.Context, id string) (domain.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.issues[id]
	return i, ok
}

func (s *memStore) ListIssues(_ context.Context) []domain.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Issue, 0, len(s.issueOrder))
	for _, id := range s.issueOrder {
		out = append(out, s.issues[id])
	}
	return out
}

func (s *memStore) ListIssuesByProject(_ context.Context, projectID string) []domain.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Issue{}
	for _, id := range s.issueOrder {
		if i := s.issues[id]; i.ProjectID == projectID {
			out = append(out, i)
		}
	}
	return out
}

func (s *memStore) AddProject(ctx context.Context, p domain.Project) error {
	return s.Update(ctx, func(Tx) error {
		if strings.TrimSpace(p.ID) == "" {
			return &domain.ValidationError{Field: "project.id", Reason: "must not be empty"}
		}
		if _, ok := s.projects[p.ID]; ok {
			return &domain.DuplicateIDError{Kind: domain.KindProject, ID: p.ID}
		}
		if p.Status == "" {
			p.Status = domain.ProjectStatusPlanning
		}
		if !p.Status.Valid() {
			return &domain.ValidationError{Field: "project.status", Reason: fmt.Sprintf("unknown status %q", p.Status)}
		}
		s.projects[p.ID] = p
		s.projectOrder = append(s.projectOrder, p.ID)
		return nil
	})
}

func (s *memStore) AddProgramme(ctx context.Context, p domain.Programme) error {
	return s.Update(ctx, func(Tx) error {
		if strings.TrimSpace(p.ID) == "" {
			return &domain.ValidationError{Field: "programme.id", Reason: "must not be empty"}
		}
		if _, ok := s.programmes[p.ID]; ok {
			return &domain.DuplicateIDError{Kind: domain.KindProgramme, ID: p.ID}
		}
		if _, ok := s.projects[p.ProjectID]; !ok {
			return &domain.NotFoundError{Kind: domain.KindProject, ID: p.ProjectID}
		}
		if p.Status == "" {
			p.Status = domain.ProgrammeStatusPending
		}
		if !p.Status.Valid() {
			return &domain.ValidationError{Field: "programme.status", Reason: fmt.Sprintf("unknown status %q", p.Status)}
		}
		s.programmes[p.ID] = p
		s.programmeOrder = append(s.programmeOrder, p.ID)
		return nil
	})
}

// AddWorkingPaper inserts a seeded paper. A seeded issue link is accepted only
// once the issue exists and points back at this paper.
func (s *memStore) AddWorkingPaper(ctx context.Context, wp domain.WorkingPaper) error {
	return s.Update(ctx, func(Tx) error {
		if strings.TrimSpace(wp.ID) == "" {
			return &domain.ValidationError{Field: "working_paper.id", Reason: "must not be empty"}
		}
		if _, ok := s.papers[wp.ID]; ok {
			return &domain.DuplicateIDError{Kind: domain.KindWorkingPaper, ID: wp.ID}
		}
		if _, ok := s.programmes[wp.ProgrammeID]; !ok {
			return &domain.NotFoundError{Kind: domain.KindProgramme, ID: wp.ProgrammeID}
		}
		if wp.Status == "" {
			wp.Status = domain.TestStatusPending
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
		s.paperOrder = append(s.paperOrder, wp.ID)
		return nil
	})
}

func (s *memStore) AppendIssue(ctx context.Context, issue domain.Issue) error {
	return s.Update(ctx, func(tx Tx) error {
		return tx.AppendIssue(issue)
	})
}

func (s *memStore) UpdateWorkingPaper(
	ctx context.Context,
	id string,
	patch domain.WorkingPaperPatch,
) (domain.WorkingPaper, error) {
	var updated domain.WorkingPaper
	err := s.Update(ctx, func(tx Tx) error {
		wp, ok := tx.GetWorkingPaper(id)
		if !ok {
			return &domain.NotFoundError{Kind: domain.KindWorkingPaper, ID: id}
		}
		patch.Apply(&wp)
		updated = wp
		return tx.PutWorkingPaper(wp)
	})
	if err != nil {
		return domain.WorkingPaper{}, err
	}
	return updated.Clone(), nil
}

func (s *memStore) UpdateProjectStatus(
	ctx context.Context,
	id string,
	status domain.ProjectStatus,
) (domain.Project, error) {
	var updated domain.Project
	err := s.Update(ctx, func(tx Tx) error {
		if err := tx.SetProjectStatus(id, status); err != nil {
			return err
		}
		updated, _ = tx.GetProject(id)
		return nil
	})
	return updated, err
}

func (s *memStore) NextIssueID(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextIssueID()
}

func (s *memStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{s: s}
	err := fn(tx)
	tx.done = true
	if err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// caller holds s.mu
func (s *memStore) nextIssueID() string {
	seq := s.issueSeq
	if n := len(s.issues); n > seq {
		seq = n
	}
	return fmt.Sprintf(issueIDFormat, seq+1)
}

// caller holds s.mu
func (s *memStore) observeIssueID(id string) {
	if n, ok := parseIssueSeq(id); ok && n > s.issueSeq {
		s.issueSeq = n
	}
	if n := len(s.issues); n > s.issueSeq {
		s.issueSeq = n
	}
}

// caller holds s.mu
func (s *memStore) checkBackReference(paperID, issueID string) error {
	issue, ok := s.issues[issueID]
	if !ok {
		return &domain.NotFoundError{Kind: domain.KindIssue, ID: issueID}
	}
	if issue.WorkingPaperID != paperID {
		return &domain.ValidationError{
			Field:  "working_paper.issue_id",
			Reason: fmt.Sprintf("issue %q links working paper %q, not %q", issueID, issue.WorkingPaperID, paperID),
		}
	}
	return nil
}

func parseIssueSeq(id string) (int, bool) {
	if !strings.HasPrefix(id, issueIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, issueIDPrefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
