package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/audit-atlas/pkg/services/config"
)

func TestBuild_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)
	ctx := logger.WithContext(context.Background())

	a, err := Build(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Nil(t, a.Analyzer)
	assert.Len(t, a.Explorer.ListProjects(ctx), 2)
	assert.Equal(t, "ISSUE-002", a.Store.NextIssueID(ctx))
	assert.Contains(t, buf.String(), "AI analysis disabled")
	assert.Contains(t, buf.String(), "audit store ready")
}

func TestBuild_WithKey(t *testing.T) {
	t.Setenv("AUDITPRO_ANALYSIS_API_KEY", "sk-test")
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	a, err := Build(zerolog.Nop().WithContext(context.Background()), cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.Analyzer)
}

func TestBuild_BadSeed(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Seed.Path = "/does/not/exist.yaml"

	_, err = Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to seed store")
}

func TestNewLogger_Level(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
