package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) New(
	ctx context.Context,
	body anthropic.MessageNewParams,
	opts ...option.RequestOption,
) (*anthropic.Message, error) {
	args := m.Called(ctx, body)
	msg, _ := args.Get(0).(*anthropic.Message)
	return msg, args.Error(1)
}

func textMessage(text string) *anthropic.Message {
	return &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "text", Text: text}}}
}

func newMockedClient(t *testing.T) (*Client, *mockSender) {
	t.Helper()
	c, err := NewClient(Settings{APIKey: "test-key"})
	require.NoError(t, err)
	sender := &mockSender{}
	c.messages = sender
	c.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
	}
	return c, sender
}

func messageJSON(text string) map[string]interface{} {
	return map[string]interface{}{
		"id":    "msg_test123",
		"type":  "message",
		"role":  "assistant",
		"model": DefaultModel,
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"usage": map[string]interface{}{"input_tokens": 12, "output_tokens": 40},
	}
}

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Settings{APIKey: "test-key"}, option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	c.newBackOff = func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = time.Millisecond
		bo.MaxElapsedTime = 2 * time.Second
		return bo
	}
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewClient(Settings{})
	assert.ErrorIs(t, err, ErrAPIKeyRequired)

	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	c, err := NewClient(Settings{})
	require.NoError(t, err)
	assert.Equal(t, anthropic.Model(DefaultModel), c.model)
}

func TestAnalyze_ParsesReply(t *testing.T) {
	reply := "```json\n" + `{
  "summary": "Overtime paid without approval.",
  "riskRating": "High",
  "suggestedRemediation": ["Enforce approval workflow", "Recover overpayments"],
  "complianceImplications": "Breach of payroll policy."
}` + "\n```"

	var prompt string
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		prompt = string(body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(messageJSON(reply))
	})

	got, err := c.Analyze(context.Background(), "3 of 25 overtime samples lacked approval")
	require.NoError(t, err)
	assert.Equal(t, domain.Analysis{
		Summary:                "Overtime paid without approval.",
		RiskRating:             "High",
		SuggestedRemediation:   []string{"Enforce approval workflow", "Recover overpayments"},
		ComplianceImplications: "Breach of payroll policy.",
	}, got)
	assert.Contains(t, prompt, "3 of 25 overtime samples lacked approval")
}

func TestAnalyze_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(messageJSON(`{"summary":"ok","riskRating":"Low"}`))
	})

	got, err := c.Analyze(context.Background(), "minor findings")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "ok", got.Summary)
	assert.Empty(t, got.SuggestedRemediation)
	assert.NotNil(t, got.SuggestedRemediation)
}

func TestAnalyze_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	})

	_, err := c.Analyze(context.Background(), "findings")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var apiErr *anthropic.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestAnalyze_RejectsBlankFindings(t *testing.T) {
	c, sender := newMockedClient(t)

	_, err := c.Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	sender.AssertNotCalled(t, "New", mock.Anything, mock.Anything)
}

func TestAnalyze_BadReplies(t *testing.T) {
	tests := []struct {
		name string
		msg  *anthropic.Message
	}{
		{name: "not json", msg: textMessage("I cannot help with that.")},
		{name: "no content", msg: &anthropic.Message{}},
		{name: "not text", msg: &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "tool_use"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sender := newMockedClient(t)
			sender.On("New", mock.Anything, mock.Anything).Return(tt.msg, nil).Once()

			_, err := c.Analyze(context.Background(), "findings")
			assert.Error(t, err)
			sender.AssertNumberOfCalls(t, "New", 1)
		})
	}
}

func TestAnalyze_PlainErrorStopsImmediately(t *testing.T) {
	c, sender := newMockedClient(t)
	boom := errors.New("boom")
	sender.On("New", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := c.Analyze(context.Background(), "findings")
	assert.ErrorIs(t, err, boom)
	sender.AssertNumberOfCalls(t, "New", 1)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	c, sender := newMockedClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sender.On("New", mock.Anything, mock.Anything).Return(nil, context.Canceled).Maybe()

	_, err := c.Analyze(ctx, "findings")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDraftReport(t *testing.T) {
	c, sender := newMockedClient(t)
	sender.On("New", mock.Anything, mock.MatchedBy(func(p anthropic.MessageNewParams) bool {
		return p.Model == anthropic.Model(DefaultModel) && len(p.Messages) == 1
	})).Return(textMessage("  The payroll audit identified one high risk issue.\n"), nil).Once()

	view := domain.ProjectView{
		Project:    domain.Project{ID: "PRJ-2026-001", Title: "FY2026 Q1 Financial Audit"},
		Programmes: []domain.ProgrammeNode{},
		Issues:     []domain.Issue{{ID: "ISSUE-001", Title: "Unauthorized Overtime Payments"}},
	}
	got, err := c.DraftReport(context.Background(), view)
	require.NoError(t, err)
	assert.Equal(t, "The payroll audit identified one high risk issue.", got)
	sender.AssertExpectations(t)
}

func TestReportPromptCarriesProject(t *testing.T) {
	p := reportPrompt(`{"project":{"id":"PRJ-2026-001"}}`)
	assert.True(t, strings.Contains(p, "PRJ-2026-001"))
	assert.True(t, strings.HasPrefix(p, "Draft a formal executive summary"))
}
