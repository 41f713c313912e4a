package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/audit-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/audit-atlas/pkg/services/analysis"
	"github.com/de-tools/audit-atlas/pkg/services/hierarchy"
	"github.com/de-tools/audit-atlas/pkg/services/portfolio"
	"github.com/de-tools/audit-atlas/pkg/services/workflow"
)

// CLI represents the command-line interface
type CLI struct {
	loader  Loader
	deps    *commands.Deps
	table   commands.ReportHandler
	plain   commands.ReportHandler
	rootCmd *cobra.Command
}

// Services are the collaborators the subcommands drive. Analyzer may be nil.
type Services struct {
	Resolver   hierarchy.Resolver
	Explorer   portfolio.Explorer
	Controller workflow.Controller
	Analyzer   analysis.Analyzer
}

// Loader builds the services once flags are parsed.
type Loader func(ctx context.Context, configPath string) (Services, error)

// Options contain configuration for the CLI. Loader, when set, replaces
// Services before any subcommand runs.
type Options struct {
	Services Services
	Loader   Loader
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		loader: opts.Loader,
		table:  export.NewReporter(opts.Output),
		plain:  NewReporter(opts.Output),
	}
	cli.deps = &commands.Deps{Reporter: cli.table}
	cli.use(opts.Services)

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// Root exposes the command tree so callers can add flags or set arguments.
func (cli *CLI) Root() *cobra.Command {
	return cli.rootCmd
}

func (cli *CLI) use(s Services) {
	cli.deps.Resolver = s.Resolver
	cli.deps.Explorer = s.Explorer
	cli.deps.Controller = s.Controller
	cli.deps.Analyzer = s.Analyzer
}

func (cli *CLI) newRootCmd() *cobra.Command {
	var (
		plain      bool
		configPath string
	)
	cmd := &cobra.Command{
		Use:           "auditpro",
		Short:         "AuditPro+ audit workflow tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if plain {
				cli.deps.Reporter = cli.plain
			}
			if cli.loader == nil {
				return nil
			}
			services, err := cli.loader(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			cli.use(services)
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(&plain, "plain", false, "Render reports as a list instead of a table")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to an auditpro config file")

	cmd.AddCommand(commands.NewProjectsCmd(cli.deps))
	cmd.AddCommand(commands.NewTreeCmd(cli.deps))
	cmd.AddCommand(commands.NewIssuesCmd(cli.deps))
	cmd.AddCommand(commands.NewDashboardCmd(cli.deps))
	cmd.AddCommand(commands.NewFailCmd(cli.deps))
	cmd.AddCommand(commands.NewOutcomeCmd(cli.deps, "pass", domain.TestStatusPass))
	cmd.AddCommand(commands.NewOutcomeCmd(cli.deps, "na", domain.TestStatusNA))
	cmd.AddCommand(commands.NewIssueStatusCmd(cli.deps))
	cmd.AddCommand(commands.NewAnalyzeCmd(cli.deps))
	cmd.AddCommand(commands.NewReportCmd(cli.deps))

	return cmd
}
