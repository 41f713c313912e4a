package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/audit-atlas/pkg/models/api"
	"github.com/de-tools/audit-atlas/pkg/services/hierarchy"
	"github.com/de-tools/audit-atlas/pkg/services/portfolio"
	"github.com/de-tools/audit-atlas/pkg/services/workflow"
	"github.com/de-tools/audit-atlas/pkg/store/seed"
)

var fixedNow = time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := seed.NewSeededStore(context.Background(), "")
	require.NoError(t, err)

	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Resolver:   hierarchy.NewResolver(st),
			Explorer:   portfolio.NewExplorer(st),
			Controller: workflow.NewController(st, workflow.WithClock(func() time.Time { return fixedNow })),
			Papers:     st,
			Logger:     zerolog.New(zerolog.NewTestWriter(t)),
		},
	}
	testServer := httptest.NewServer(ConfigureRouter(config))
	t.Cleanup(testServer.Close)
	return testServer
}

func TestWebAPI_Endpoints(t *testing.T) {
	testServer := setupServer(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:           "ListProjects",
			method:         http.MethodGet,
			path:           "/api/v1/projects",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				projects := mustUnmarshal[[]api.Project](t, body)
				require.Len(t, projects, 2)
				assert.Equal(t, "PRJ-2026-001", projects[0].ID)
				assert.Equal(t, "2026-01-15", projects[0].StartDate)
			},
		},
		{
			name:           "GetProject",
			method:         http.MethodGet,
			path:           "/api/v1/projects/PRJ-2026-001",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				detail := mustUnmarshal[api.ProjectDetail](t, body)
				assert.Equal(t, "FY2026 Q1 Financial Audit", detail.Project.Title)
				require.Len(t, detail.Programmes, 2)
				assert.Len(t, detail.Programmes[0].WorkingPapers, 3)
				require.Len(t, detail.Issues, 1)
				assert.Equal(t, api.RiskLevelHigh, detail.Issues[0].RiskLevel)
			},
		},
		{
			name:           "GetProject_NotFound",
			method:         http.MethodGet,
			path:           "/api/v1/projects/PRJ-404",
			expectedStatus: http.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, "project \"PRJ-404\" not found\n", string(body))
			},
		},
		{
			name:           "ListProgrammes_UnknownProject",
			method:         http.MethodGet,
			path:           "/api/v1/projects/PRJ-404/programmes",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, []api.Programme{}, mustUnmarshal[[]api.Programme](t, body))
			},
		},
		{
			name:           "ListIssues_Filtered",
			method:         http.MethodGet,
			path:           "/api/v1/issues?project=PRJ-2026-001&min_risk=high",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				issues := mustUnmarshal[[]api.Issue](t, body)
				require.Len(t, issues, 1)
				assert.Equal(t, "Overtime Authorization", issues[0].WorkingPaperTitle)
			},
		},
		{
			name:           "ListIssues_BadRisk",
			method:         http.MethodGet,
			path:           "/api/v1/issues?min_risk=extreme",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Dashboard",
			method:         http.MethodGet,
			path:           "/api/v1/dashboard",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				d := mustUnmarshal[api.Dashboard](t, body)
				assert.Equal(t, 1, d.ProjectsByStatus["fieldwork"])
				assert.Equal(t, 1, d.IssuesByRisk["high"])
				assert.Equal(t, 0, d.IssuesByRisk["critical"])
			},
		},
		{
			name:           "Analysis_NotConfigured",
			method:         http.MethodPost,
			path:           "/api/v1/analysis",
			body:           `{"findings":"x"}`,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "WorkingPaperStatus_BadBody",
			method:         http.MethodPost,
			path:           "/api/v1/working-papers/WP-003/status",
			body:           `{"status":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "WorkingPaperStatus_Pending",
			method:         http.MethodPost,
			path:           "/api/v1/working-papers/WP-003/status",
			body:           `{"status":"pending"}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "WorkingPaperStatus_Unknown",
			method:         http.MethodPost,
			path:           "/api/v1/working-papers/WP-404/status",
			body:           `{"status":"pass"}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, testServer, tc.method, tc.path, tc.body)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")
			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch: %s", body)
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}
}

func TestWebAPI_FailRaisesIssue(t *testing.T) {
	testServer := setupServer(t)

	resp := do(t, testServer, http.MethodPost, "/api/v1/working-papers/WP-003/status", `{
		"status": "fail",
		"issue": {"title": "Ghost employees on payroll", "finding": "2 inactive staff paid", "risk_level": "critical"}
	}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	transition := mustUnmarshal[api.Transition](t, body)
	require.NotNil(t, transition.Issue)
	assert.Equal(t, "ISSUE-002", transition.Issue.ID)
	assert.Equal(t, "ISSUE-002", transition.WorkingPaper.IssueID)
	assert.Equal(t, "pending", transition.PreviousStatus)
	assert.Equal(t, fixedNow, transition.Issue.CreatedAt)

	issueResp := do(t, testServer, http.MethodGet, "/api/v1/issues/ISSUE-002", "")
	defer issueResp.Body.Close()
	require.Equal(t, http.StatusOK, issueResp.StatusCode)
	issueBody, err := io.ReadAll(issueResp.Body)
	require.NoError(t, err)
	issue := mustUnmarshal[api.Issue](t, issueBody)
	assert.Equal(t, "WP-003", issue.WorkingPaperID)
	assert.Equal(t, "Ghost Employee Check", issue.WorkingPaperTitle)
	assert.Equal(t, api.RiskLevelCritical, issue.RiskLevel)

	closeResp := do(t, testServer, http.MethodPost, "/api/v1/issues/ISSUE-002/status", `{"status":"management_response"}`)
	defer closeResp.Body.Close()
	assert.Equal(t, http.StatusOK, closeResp.StatusCode)
}

func TestWebAPI_PatchWorkingPaper(t *testing.T) {
	testServer := setupServer(t)

	resp := do(t, testServer, http.MethodPatch, "/api/v1/working-papers/WP-004",
		`{"auditor_notes":"Bid files requested","evidence_urls":["bids.zip"],"actual_hours":2.5}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	wp := mustUnmarshal[api.WorkingPaper](t, body)
	assert.Equal(t, "Bid files requested", wp.AuditorNotes)
	assert.Equal(t, []string{"bids.zip"}, wp.EvidenceURLs)
	require.NotNil(t, wp.ActualHours)
	assert.Equal(t, 2.5, *wp.ActualHours)
	assert.Equal(t, "pending", wp.Status)
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "Failed to send request")
	return resp
}

func mustUnmarshal[T any](t *testing.T, data []byte) T {
	t.Helper()
	var response T
	require.NoError(t, json.Unmarshal(data, &response), "Failed to parse response: %s", data)
	return response
}
