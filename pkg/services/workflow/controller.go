package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/store/memory"
	"github.com/de-tools/audit-atlas/pkg/telemetry"
)

const scope = "github.com/de-tools/audit-atlas/workflow"

// Controller applies test outcomes to working papers and moves issues
// through their lifecycle. Each call either fully commits or leaves the
// store untouched.
type Controller interface {
	ApplyStatus(
		ctx context.Context,
		workingPaperID string,
		status domain.TestStatus,
		draft *domain.IssueDraft,
	) (domain.Transition, error)
	TransitionIssue(ctx context.Context, issueID string, status domain.IssueStatus) (domain.IssueTransition, error)
}

// IssueIDFunc picks the id of an issue about to be raised.
type IssueIDFunc func(tx memory.Tx) string

type Option func(*DefaultController)

func WithClock(now func() time.Time) Option {
	return func(c *DefaultController) { c.now = now }
}

func WithIssueIDFunc(fn IssueIDFunc) Option {
	return func(c *DefaultController) { c.nextIssueID = fn }
}

func WithLinkPolicy(p domain.LinkPolicy) Option {
	return func(c *DefaultController) {
		if p.Valid() {
			c.policy = p
		}
	}
}

type DefaultController struct {
	store       memory.Store
	now         func() time.Time
	nextIssueID IssueIDFunc
	policy      domain.LinkPolicy

	tracer      trace.Tracer
	transitions metric.Int64Counter
	raised      metric.Int64Counter
	orphaned    metric.Int64Counter
}

func NewController(store memory.Store, opts ...Option) *DefaultController {
	ctrl := &DefaultController{
		store:       store,
		now:         time.Now,
		nextIssueID: func(tx memory.Tx) string { return tx.NextIssueID() },
		policy:      domain.LinkPolicyCreateNew,
		tracer:      telemetry.Tracer(scope),
	}
	for _, opt := range opts {
		opt(ctrl)
	}

	meter := telemetry.Meter(scope)
	// instrument errors only happen with a misconfigured provider; the no-op
	// counters returned alongside are still safe to use
	ctrl.transitions, _ = meter.Int64Counter("auditpro.workflow.transitions",
		metric.WithDescription("Working paper status changes committed"))
	ctrl.raised, _ = meter.Int64Counter("auditpro.workflow.issues_raised",
		metric.WithDescription("Issues created from failed tests"))
	ctrl.orphaned, _ = meter.Int64Counter("auditpro.workflow.issues_orphaned",
		metric.WithDescription("Issues left unreferenced by a repeated fail"))

	return ctrl
}

func (ctrl *DefaultController) ApplyStatus(
	ctx context.Context,
	workingPaperID string,
	status domain.TestStatus,
	draft *domain.IssueDraft,
) (domain.Transition, error) {
	ctx, span := ctrl.tracer.Start(ctx, "workflow.ApplyStatus", trace.WithAttributes(
		attribute.String("working_paper.id", workingPaperID),
		attribute.String("working_paper.status", string(status)),
		attribute.Bool("issue.draft", draft != nil),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx).With().
		Str("working_paper_id", workingPaperID).
		Str("status", string(status)).
		Logger()

	if !status.Outcome() {
		err := &domain.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("must be one of pass, fail, n/a; got %q", status),
		}
		recordError(span, err)
		return domain.Transition{}, err
	}

	var res domain.Transition
	err := ctrl.store.Update(ctx, func(tx memory.Tx) error {
		res = domain.Transition{}

		wp, ok := tx.GetWorkingPaper(workingPaperID)
		if !ok {
			return &domain.NotFoundError{Kind: domain.KindWorkingPaper, ID: workingPaperID}
		}
		prog, ok := tx.GetProgramme(wp.ProgrammeID)
		if !ok {
			return &domain.NotFoundError{Kind: domain.KindProgramme, ID: wp.ProgrammeID}
		}

		res.PreviousStatus = wp.Status
		wp.Status = status
		if wp.CompletedAt == nil {
			completed := ctrl.now()
			wp.CompletedAt = &completed
		}

		if status == domain.TestStatusFail && draft != nil {
			issue, orphaned, err := ctrl.raiseIssue(tx, wp, prog.ProjectID, draft)
			if err != nil {
				return err
			}
			wp.IssueID = issue.ID
			res.Issue = &issue
			res.OrphanedIssueID = orphaned
		}

		if err := tx.PutWorkingPaper(wp); err != nil {
			return fmt.Errorf("update working paper: %w", err)
		}
		res.WorkingPaper = wp
		return nil
	})
	if err != nil {
		recordError(span, err)
		logger.Debug().Err(err).Msg("status change rejected")
		return domain.Transition{}, err
	}

	ctrl.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	if res.Issue != nil {
		span.SetAttributes(attribute.String("issue.id", res.Issue.ID))
		ctrl.raised.Add(ctx, 1, metric.WithAttributes(attribute.String("risk_level", res.Issue.RiskLevel.String())))
		logger.Info().
			Str("issue_id", res.Issue.ID).
			Str("risk_level", res.Issue.RiskLevel.String()).
			Msg("issue raised from failed test")
	}
	if res.OrphanedIssueID != "" {
		ctrl.orphaned.Add(ctx, 1)
		logger.Warn().
			Str("orphaned_issue_id", res.OrphanedIssueID).
			Msg("working paper relinked; previous issue no longer referenced")
	}
	logger.Debug().Str("previous_status", string(res.PreviousStatus)).Msg("status applied")

	return res, nil
}

// raiseIssue builds the issue for a failed test and writes it through tx. Under
// the update-existing policy an already linked issue is rewritten instead.
func (ctrl *DefaultController) raiseIssue(
	tx memory.Tx,
	wp domain.WorkingPaper,
	projectID string,
	draft *domain.IssueDraft,
) (domain.Issue, string, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return domain.Issue{}, "", &domain.ValidationError{Field: "issue.title", Reason: "must not be empty"}
	}
	risk := domain.RiskLevelMedium
	if strings.TrimSpace(draft.RiskLevel) != "" {
		r, err := domain.ParseRiskLevel(draft.RiskLevel)
		if err != nil {
			return domain.Issue{}, "", err
		}
		risk = r
	}

	if wp.IssueID != "" && ctrl.policy == domain.LinkPolicyUpdateExisting {
		if existing, ok := tx.GetIssueByID(wp.IssueID); ok {
			updated := applyDraft(existing, draft, risk)
			if err := tx.ReplaceIssue(updated); err != nil {
				return domain.Issue{}, "", fmt.Errorf("update issue: %w", err)
			}
			return updated, "", nil
		}
	}

	createdAt := ctrl.now()
	if draft.CreatedAt != nil {
		createdAt = *draft.CreatedAt
	}
	issue := applyDraft(domain.Issue{
		ID:             ctrl.nextIssueID(tx),
		ProjectID:      projectID,
		WorkingPaperID: wp.ID,
		Status:         domain.IssueStatusOpen,
		CreatedAt:      createdAt,
	}, draft, risk)

	if err := tx.AppendIssue(issue); err != nil {
		return domain.Issue{}, "", fmt.Errorf("append issue: %w", err)
	}
	return issue, wp.IssueID, nil
}

func applyDraft(issue domain.Issue, draft *domain.IssueDraft, risk domain.RiskLevel) domain.Issue {
	issue.Title = strings.TrimSpace(draft.Title)
	issue.Description = draft.Description
	issue.Finding = draft.Finding
	issue.Impact = draft.Impact
	issue.Recommendation = draft.Recommendation
	issue.RootCause = draft.RootCause
	issue.RiskLevel = risk
	issue.AssignedToEmail = draft.AssignedToEmail
	issue.Department = draft.Department
	issue.RemediationTimeline = draft.RemediationTimeline
	return issue
}

var issueTransitions = map[domain.IssueStatus][]domain.IssueStatus{
	domain.IssueStatusOpen:               {domain.IssueStatusManagementResponse, domain.IssueStatusClosed},
	domain.IssueStatusManagementResponse: {domain.IssueStatusOpen, domain.IssueStatusClosed},
	domain.IssueStatusClosed:             {domain.IssueStatusOpen},
}

func canTransition(from, to domain.IssueStatus) bool {
	if from == to {
		return true
	}
	for _, s := range issueTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (ctrl *DefaultController) TransitionIssue(
	ctx context.Context,
	issueID string,
	status domain.IssueStatus,
) (domain.IssueTransition, error) {
	ctx, span := ctrl.tracer.Start(ctx, "workflow.TransitionIssue", trace.WithAttributes(
		attribute.String("issue.id", issueID),
		attribute.String("issue.status", string(status)),
	))
	defer span.End()

	if !status.Valid() {
		err := &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown issue status %q", status)}
		recordError(span, err)
		return domain.IssueTransition{}, err
	}

	var res domain.IssueTransition
	err := ctrl.store.Update(ctx, func(tx memory.Tx) error {
		issue, ok := tx.GetIssueByID(issueID)
		if !ok {
			return &domain.NotFoundError{Kind: domain.KindIssue, ID: issueID}
		}
		if !canTransition(issue.Status, status) {
			return &domain.ValidationError{
				Field:  "status",
				Reason: fmt.Sprintf("cannot move issue from %s to %s", issue.Status, status),
			}
		}
		res.PreviousStatus = issue.Status
		issue.Status = status
		res.Issue = issue
		return tx.ReplaceIssue(issue)
	})
	if err != nil {
		recordError(span, err)
		return domain.IssueTransition{}, err
	}

	zerolog.Ctx(ctx).Info().
		Str("issue_id", issueID).
		Str("from", string(res.PreviousStatus)).
		Str("to", string(status)).
		Msg("issue status changed")
	return res, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}
	span.SetStatus(codes.Error, err.Error())
}
