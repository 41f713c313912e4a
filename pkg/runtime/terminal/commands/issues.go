package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/runtime/terminal/export"
)

type IssuesCmd struct {
	deps    *Deps
	project string
	status  string
	minRisk string
}

func NewIssuesCmd(deps *Deps) *cobra.Command {
	ic := &IssuesCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List issues in the tracker",
		Args:  cobra.NoArgs,
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.project, "project", "", "Only issues of this project")
	cmd.Flags().StringVar(&ic.status, "status", "", "Only issues in this status (open, management_response, closed)")
	cmd.Flags().StringVar(&ic.minRisk, "min-risk", "", "Only issues at or above this risk level")

	return cmd
}

func (ic *IssuesCmd) filter() (domain.IssueFilter, error) {
	f := domain.IssueFilter{ProjectID: ic.project, Status: domain.IssueStatus(ic.status)}
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("unknown issue status %q", ic.status)
	}
	if ic.minRisk != "" {
		r, err := domain.ParseRiskLevel(ic.minRisk)
		if err != nil {
			return f, err
		}
		f.MinRisk = &r
	}
	return f, nil
}

func (ic *IssuesCmd) run(cmd *cobra.Command, _ []string) error {
	f, err := ic.filter()
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()
	return ic.deps.Reporter.Handle(export.IssuesReport(ic.deps.Explorer.ListIssues(ctx, f)))
}
