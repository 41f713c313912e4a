package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/audit-atlas/pkg/runtime/terminal/export"
)

func NewProjectsCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List audit projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			return deps.Reporter.Handle(export.ProjectsReport(deps.Explorer.ListProjects(ctx)))
		},
	}
}

func NewTreeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <project>",
		Short: "Show a project's programmes, working papers and issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			view, err := deps.Resolver.SelectProject(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load project: %w", err)
			}
			return deps.Reporter.Handle(export.TreeReport(view))
		},
	}
}

func NewDashboardCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show portfolio statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			return deps.Reporter.Handle(export.DashboardReport(deps.Explorer.Dashboard(ctx)))
		},
	}
}
