package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/runtime/terminal/export"
)

type FailCmd struct {
	deps  *Deps
	draft domain.IssueDraft
}

// NewFailCmd records a failed test and raises an issue from the flags.
func NewFailCmd(deps *Deps) *cobra.Command {
	fc := &FailCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "fail <working-paper>",
		Short: "Mark a working paper failed and raise an issue",
		Args:  cobra.ExactArgs(1),
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.draft.Title, "title", "", "Issue title")
	cmd.Flags().StringVar(&fc.draft.Finding, "finding", "", "What was found")
	cmd.Flags().StringVar(&fc.draft.Impact, "impact", "", "Why it matters")
	cmd.Flags().StringVar(&fc.draft.Recommendation, "recommendation", "", "Suggested fix")
	cmd.Flags().StringVar(&fc.draft.RootCause, "root-cause", "", "Underlying cause")
	cmd.Flags().StringVar(&fc.draft.RiskLevel, "risk", "medium", "Risk level (low, medium, high, critical)")
	cmd.Flags().StringVar(&fc.draft.AssignedToEmail, "assign", "", "Email of the issue owner")

	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func (fc *FailCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()

	draft := fc.draft
	res, err := fc.deps.Controller.ApplyStatus(ctx, args[0], domain.TestStatusFail, &draft)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return fc.deps.Reporter.Handle(export.TransitionReport(res))
}

// NewOutcomeCmd records an outcome that never raises an issue (pass or n/a).
func NewOutcomeCmd(deps *Deps, use string, status domain.TestStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <working-paper>",
		Short: fmt.Sprintf("Mark a working paper %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			res, err := deps.Controller.ApplyStatus(ctx, args[0], status, nil)
			if err != nil {
				return fmt.Errorf("failed to record outcome: %w", err)
			}
			return deps.Reporter.Handle(export.TransitionReport(res))
		},
	}
}

func NewIssueStatusCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "issue-status <issue> <status>",
		Short: "Move an issue to open, management_response or closed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			res, err := deps.Controller.TransitionIssue(ctx, args[0], domain.IssueStatus(args[1]))
			if err != nil {
				return fmt.Errorf("failed to change issue status: %w", err)
			}
			row := domain.IssueRow{Issue: res.Issue}
			return deps.Reporter.Handle(export.IssuesReport([]domain.IssueRow{row}))
		},
	}
}
