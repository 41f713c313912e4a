package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/de-tools/audit-atlas/pkg/adapters"
	"github.com/de-tools/audit-atlas/pkg/models/domain"
	"github.com/de-tools/audit-atlas/pkg/telemetry"
)

const (
	scope            = "github.com/de-tools/audit-atlas/analysis"
	DefaultModel     = "claude-haiku-4-5"
	defaultMaxTokens = 1024
	defaultMaxWait   = 30 * time.Second
)

var ErrAPIKeyRequired = errors.New("API key required")

// Analyzer asks a language model about audit findings. It never touches the store.
type Analyzer interface {
	Analyze(ctx context.Context, findings string) (domain.Analysis, error)
	DraftReport(ctx context.Context, view domain.ProjectView) (string, error)
}

type Settings struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// MaxElapsed bounds the total time spent retrying one request.
	MaxElapsed time.Duration
}

type messageSender interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type Client struct {
	messages   messageSender
	model      anthropic.Model
	maxTokens  int64
	newBackOff func() backoff.BackOff

	requests metric.Int64Counter
	tokens   metric.Int64Counter
}

// NewClient builds an Analyzer backed by the Anthropic Messages API. The key
// falls back to ANTHROPIC_API_KEY when settings leave it blank.
func NewClient(settings Settings, opts ...option.RequestOption) (*Client, error) {
	apiKey := settings.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or analysis.api_key", ErrAPIKeyRequired)
	}
	if settings.Model == "" {
		settings.Model = DefaultModel
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = defaultMaxTokens
	}
	if settings.MaxElapsed <= 0 {
		settings.MaxElapsed = defaultMaxWait
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)

	c := &Client{
		messages:  &client.Messages,
		model:     anthropic.Model(settings.Model),
		maxTokens: settings.MaxTokens,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = settings.MaxElapsed
			return bo
		},
	}

	m := telemetry.Meter(scope)
	c.requests, _ = m.Int64Counter("auditpro.ai.requests",
		metric.WithDescription("Anthropic API calls, including retries"))
	c.tokens, _ = m.Int64Counter("auditpro.ai.tokens",
		metric.WithDescription("Anthropic API tokens consumed"),
		metric.WithUnit("{token}"))

	return c, nil
}

func (c *Client) Analyze(ctx context.Context, findings string) (domain.Analysis, error) {
	if strings.TrimSpace(findings) == "" {
		return domain.Analysis{}, &domain.ValidationError{Field: "findings", Reason: "must not be empty"}
	}

	text, err := c.complete(ctx, "analyze", analysisPrompt(findings))
	if err != nil {
		return domain.Analysis{}, err
	}
	return parseAnalysis(text)
}

func (c *Client) DraftReport(ctx context.Context, view domain.ProjectView) (string, error) {
	payload, err := json.Marshal(adapters.MapProjectViewDomainToApi(view))
	if err != nil {
		return "", fmt.Errorf("encode project: %w", err)
	}
	text, err := c.complete(ctx, "draft_report", reportPrompt(string(payload)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) complete(ctx context.Context, operation, prompt string) (string, error) {
	ctx, span := telemetry.Tracer(scope).Start(ctx, "anthropic.messages.new")
	defer span.End()
	span.SetAttributes(
		attribute.String("auditpro.ai.model", string(c.model)),
		attribute.String("auditpro.ai.operation", operation),
	)
	logger := zerolog.Ctx(ctx)

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var (
		text     string
		attempts int
	)
	err := backoff.Retry(func() error {
		attempts++
		c.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))

		msg, err := c.messages.New(ctx, params)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if isRetryable(err) {
				logger.Warn().Err(err).Int("attempt", attempts).Str("operation", operation).Msg("retrying model call")
				return err
			}
			return backoff.Permanent(err)
		}

		c.tokens.Add(ctx, msg.Usage.InputTokens+msg.Usage.OutputTokens)
		t, err := firstText(msg)
		if err != nil {
			return backoff.Permanent(err)
		}
		text = t
		return nil
	}, backoff.WithContext(c.newBackOff(), ctx))

	span.SetAttributes(attribute.Int("auditpro.ai.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return "", fmt.Errorf("%s: %w", operation, err)
	}
	return text, nil
}

func firstText(msg *anthropic.Message) (string, error) {
	if len(msg.Content) == 0 {
		return "", errors.New("unexpected response format: no content blocks")
	}
	content := msg.Content[0]
	if content.Type != "text" {
		return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
	}
	return content.Text, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
