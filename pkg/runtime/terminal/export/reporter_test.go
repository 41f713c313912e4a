package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd~", clip("abcdefgh", 5))
	assert.Equal(t, "₦50,0~", clip("₦50,000 limit", 6))
}

func TestReporter_Table(t *testing.T) {
	var out bytes.Buffer
	rows := []domain.IssueRow{{
		Issue: domain.Issue{
			ID:        "ISSUE-001",
			Title:     "Unauthorized Overtime Payments",
			RiskLevel: domain.RiskLevelHigh,
			Status:    domain.IssueStatusOpen,
		},
		WorkingPaperTitle: "Overtime Authorization",
	}}
	require.NoError(t, NewReporter(&out).Handle(IssuesReport(rows)))

	text := out.String()
	assert.Contains(t, text, "=== Issue tracker ===")
	assert.Contains(t, text, "Total: 1")
	assert.Contains(t, text, "| ISSUE-001      | Unauthorized Overtime Payments")
	assert.Contains(t, text, "open Overtime Authorization")

	lines := strings.Split(strings.TrimSpace(text), "\n")
	width := len(lines[len(lines)-1])
	for _, l := range lines {
		if strings.HasPrefix(l, "|") || strings.HasPrefix(l, "+") {
			assert.Len(t, []rune(l), width, "row %q", l)
		}
	}
}

func TestDashboardReport(t *testing.T) {
	d := domain.Dashboard{
		GeneratedAt:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ProjectsByStatus: map[domain.ProjectStatus]int{domain.ProjectStatusFieldwork: 1},
		IssuesByRisk:     map[domain.RiskLevel]int{domain.RiskLevelHigh: 1},
		Projects: []domain.ProjectProgress{{
			ProjectID: "PRJ-2026-001", Title: "FY2026 Q1", Passed: 1, Failed: 1, Pending: 2, Issues: 1, Progress: 50,
		}},
	}
	report := DashboardReport(d)
	require.Len(t, report.Sections, 2)

	overview := report.Sections[0]
	assert.Equal(t, "2026-02-01 09:00", overview.Summary["Generated"])
	assert.Len(t, overview.Details, len(domain.ProjectStatuses())+len(domain.RiskLevels()))

	progress := report.Sections[1]
	require.Len(t, progress.Details, 1)
	assert.Equal(t, "50%", progress.Details[0].Unit)
	assert.Equal(t, "pass 1 fail 1 n/a 0 pending 2, 1 issues", progress.Details[0].Description)
}

func TestTransitionReport(t *testing.T) {
	report := TransitionReport(domain.Transition{
		WorkingPaper:    domain.WorkingPaper{ID: "WP-002", TestTitle: "Overtime", Status: domain.TestStatusFail},
		PreviousStatus:  domain.TestStatusFail,
		Issue:           &domain.Issue{ID: "ISSUE-002", Title: "Still failing", Status: domain.IssueStatusOpen},
		OrphanedIssueID: "ISSUE-001",
	})
	section := report.Sections[0]
	assert.Equal(t, "ISSUE-001", section.Summary["Unlinked issue"])
	require.Len(t, section.Details, 1)
	assert.Equal(t, "ISSUE-002", section.Details[0].Name)
}
