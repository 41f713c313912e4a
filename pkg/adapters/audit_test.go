package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/audit-atlas/pkg/models/api"
	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRiskLevelDomainToApi(t *testing.T) {
	tests := []struct {
		in   domain.RiskLevel
		want api.RiskLevel
	}{
		{domain.RiskLevelLow, api.RiskLevelLow},
		{domain.RiskLevelMedium, api.RiskLevelMedium},
		{domain.RiskLevelHigh, api.RiskLevelHigh},
		{domain.RiskLevelCritical, api.RiskLevelCritical},
		{domain.RiskLevel(42), api.RiskLevelLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapRiskLevelDomainToApi(tt.in))
	}
}

func TestMapStoreIssueToDomain(t *testing.T) {
	t.Run("legacy single description record", func(t *testing.T) {
		issue, err := MapStoreIssueToDomain(store.IssueRecord{
			ID:          "ISSUE-001",
			ProjectID:   "PRJ-2026-001",
			Title:       "Unauthorized Overtime Payments",
			Description: "3 out of 25 samples lacked approval",
			RiskLevel:   "High",
			CreatedAt:   "2026-01-22",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RiskLevelHigh, issue.RiskLevel)
		assert.Equal(t, domain.IssueStatusOpen, issue.Status)
		assert.Equal(t, time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC), issue.CreatedAt)
	})

	t.Run("unknown risk level", func(t *testing.T) {
		_, err := MapStoreIssueToDomain(store.IssueRecord{ID: "ISSUE-002", RiskLevel: "severe"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := MapStoreIssueToDomain(store.IssueRecord{ID: "ISSUE-002", CreatedAt: "22/01/2026"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestMapStoreWorkingPaperToDomain(t *testing.T) {
	wp, err := MapStoreWorkingPaperToDomain(store.WorkingPaperRecord{
		ID:           "WP-001",
		ProgrammeID:  "PROG-001",
		Status:       "pass",
		EvidenceURLs: []string{"contract_sample_01.pdf"},
		CompletedAt:  "2026-01-20",
	})
	require.NoError(t, err)
	require.NotNil(t, wp.CompletedAt)
	assert.Equal(t, 20, wp.CompletedAt.Day())
	assert.Equal(t, domain.TestStatusPass, wp.Status)
}

func TestMapProjectViewDomainToApi(t *testing.T) {
	view := domain.ProjectView{
		Project: domain.Project{
			ID:        "PRJ-1",
			Title:     "Payroll",
			Status:    domain.ProjectStatusFieldwork,
			StartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		Programmes: []domain.ProgrammeNode{{
			Programme: domain.Programme{ID: "PROG-1", ProjectID: "PRJ-1", Status: domain.ProgrammeStatusPending},
		}},
	}

	res := MapProjectViewDomainToApi(view)
	assert.Equal(t, "2026-01-15", res.Project.StartDate)
	assert.Empty(t, res.Project.EndDate)
	require.Len(t, res.Programmes, 1)
	assert.NotNil(t, res.Programmes[0].WorkingPapers)
	assert.NotNil(t, res.Issues)
}

func TestMapDashboardDomainToApi(t *testing.T) {
	res := MapDashboardDomainToApi(domain.Dashboard{
		ProjectsByStatus: map[domain.ProjectStatus]int{domain.ProjectStatusFieldwork: 1},
		IssuesByRisk:     map[domain.RiskLevel]int{domain.RiskLevelCritical: 2},
		IssuesByStatus:   map[domain.IssueStatus]int{domain.IssueStatusOpen: 2},
	})
	assert.Equal(t, map[string]int{"fieldwork": 1}, res.ProjectsByStatus)
	assert.Equal(t, map[string]int{"critical": 2}, res.IssuesByRisk)
	assert.Equal(t, map[string]int{"open": 2}, res.IssuesByStatus)
	assert.NotNil(t, res.Projects)
}
