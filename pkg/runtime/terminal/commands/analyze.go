package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/runtime/terminal/export"
)

var errNoAnalyzer = errors.New("AI analysis is not configured (set ANTHROPIC_API_KEY)")

func NewAnalyzeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <findings>...",
		Short: "Ask the AI assistant to assess audit findings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Analyzer == nil {
				return errNoAnalyzer
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			res, err := deps.Analyzer.Analyze(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to analyze findings: %w", err)
			}
			return deps.Reporter.Handle(export.AnalysisReport(res))
		},
	}
}

func NewReportCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "report <project>",
		Short: "Draft an executive summary for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Analyzer == nil {
				return errNoAnalyzer
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			view, err := deps.Resolver.SelectProject(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load project: %w", err)
			}
			draft, err := deps.Analyzer.DraftReport(ctx, view)
			if err != nil {
				return fmt.Errorf("failed to draft report: %w", err)
			}
			return deps.Reporter.Handle(&domain.Report{
				Title: "Executive summary draft: " + view.Project.Title,
				Sections: []domain.ReportSection{{
					Title:   view.Project.ID,
					Summary: map[string]interface{}{"Draft": draft},
				}},
			})
		},
	}
}
