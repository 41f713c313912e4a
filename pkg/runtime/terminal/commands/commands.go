package commands

import (
	"context"
	"time"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/services/analysis"
	"github.com/de-tools/audit-atlas/pkg/services/hierarchy"
	"github.com/de-tools/audit-atlas/pkg/services/portfolio"
	"github.com/de-tools/audit-atlas/pkg/services/workflow"
)

const commandTimeout = 60 * time.Second

type ReportHandler interface {
	Handle(report *domain.Report) error
}

// Deps is shared by every subcommand. Analyzer may be nil.
type Deps struct {
	Resolver   hierarchy.Resolver
	Explorer   portfolio.Explorer
	Controller workflow.Controller
	Analyzer   analysis.Analyzer
	Reporter   ReportHandler
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}
