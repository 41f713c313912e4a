package terminal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/services/hierarchy"
	"github.com/de-tools/audit-atlas/pkg/services/portfolio"
	"github.com/de-tools/audit-atlas/pkg/services/workflow"
	"github.com/de-tools/audit-atlas/pkg/store/seed"
)

func seededServices(t *testing.T) Services {
	t.Helper()
	st, err := seed.NewSeededStore(context.Background(), "")
	require.NoError(t, err)
	clock := func() time.Time { return time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC) }
	return Services{
		Resolver:   hierarchy.NewResolver(st),
		Explorer:   portfolio.NewExplorer(st),
		Controller: workflow.NewController(st, workflow.WithClock(clock)),
	}
}

func run(t *testing.T, services Services, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(Options{Services: services, Output: &out})
	cli.Root().SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCLI_Commands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		wantErr  bool
	}{
		{
			name:     "projects",
			args:     []string{"projects"},
			contains: []string{"PRJ-2026-001", "IT Security & Access Controls", "Total: 2"},
		},
		{
			name:     "tree",
			args:     []string{"tree", "PRJ-2026-001"},
			contains: []string{"PROG-001 Payroll Process", "WP-002", "ISSUE-001", "Overtime Authorization"},
		},
		{name: "tree unknown", args: []string{"tree", "PRJ-404"}, wantErr: true},
		{
			name:     "issues filtered",
			args:     []string{"issues", "--min-risk", "high"},
			contains: []string{"ISSUE-001", "Unauthorized Overtime Payments", "high"},
		},
		{name: "issues bad risk", args: []string{"issues", "--min-risk", "extreme"}, wantErr: true},
		{name: "issues bad status", args: []string{"issues", "--status", "done"}, wantErr: true},
		{
			name:     "dashboard",
			args:     []string{"dashboard"},
			contains: []string{"Fieldwork progress", "PRJ-2026-001", "50%"},
		},
		{
			name:     "pass",
			args:     []string{"pass", "WP-003"},
			contains: []string{"Previous status: pending", "Status: pass"},
		},
		{
			name:     "na",
			args:     []string{"na", "WP-004"},
			contains: []string{"Status: n/a"},
		},
		{
			name:     "fail raises issue",
			args:     []string{"fail", "WP-003", "--title", "Ghost employees", "--risk", "critical"},
			contains: []string{"ISSUE-002", "Ghost employees", "critical"},
		},
		{name: "fail needs title", args: []string{"fail", "WP-003"}, wantErr: true},
		{name: "fail unknown paper", args: []string{"fail", "WP-404", "--title", "x"}, wantErr: true},
		{
			name:     "issue status",
			args:     []string{"issue-status", "ISSUE-001", "management_response"},
			contains: []string{"ISSUE-001", "management_response"},
		},
		{name: "analyze without key", args: []string{"analyze", "some", "findings"}, wantErr: true},
		{
			name:     "plain output",
			args:     []string{"--plain", "projects"},
			contains: []string{"== Projects", "- PRJ-2026-001: FY2026 Q1 Financial Audit (fieldwork)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, seededServices(t), tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestCLI_FailTwiceReportsUnlinkedIssue(t *testing.T) {
	services := seededServices(t)

	out, err := run(t, services, "fail", "WP-002", "--title", "Still failing")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlinked issue: ISSUE-001")
	assert.Contains(t, out, "ISSUE-002")
}

func TestCLI_Loader(t *testing.T) {
	var gotPath string
	var out bytes.Buffer
	cli := NewCLI(Options{
		Output: &out,
		Loader: func(_ context.Context, configPath string) (Services, error) {
			gotPath = configPath
			return seededServices(t), nil
		},
	})
	cli.Root().SetArgs([]string{"--config", "/etc/auditpro.yaml", "projects"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "/etc/auditpro.yaml", gotPath)
	assert.Contains(t, out.String(), "PRJ-2026-002")

	failing := NewCLI(Options{
		Output: &out,
		Loader: func(context.Context, string) (Services, error) {
			return Services{}, errors.New("bad config")
		},
	})
	failing.Root().SetArgs([]string{"projects"})
	assert.EqualError(t, failing.Execute(context.Background()), "bad config")
}

func TestReporter_Plain(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	require.NoError(t, r.Handle(&domain.Report{
		Title: "Issues",
		Sections: []domain.ReportSection{{
			Title:   "Issue tracker",
			Summary: map[string]interface{}{"Total": 1},
			Details: []domain.ReportDetail{{Name: "ISSUE-001", Value: "Overtime", Unit: "high", Description: "open"}},
		}},
	}))
	assert.Equal(t, "Issues\n\n== Issue tracker\nTotal: 1\n- ISSUE-001: Overtime (high)\n  open\n", out.String())
}
