package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name           string
		verbose, quiet bool
		enabled        []slog.Level
		disabled       []slog.Level
	}{
		{"default", false, false, []slog.Level{slog.LevelInfo, slog.LevelError}, []slog.Level{slog.LevelDebug}},
		{"verbose", true, false, []slog.Level{slog.LevelDebug, slog.LevelInfo}, nil},
		{"quiet", false, true, []slog.Level{slog.LevelWarn, slog.LevelError}, []slog.Level{slog.LevelInfo, slog.LevelDebug}},
		{"quiet wins", true, true, []slog.Level{slog.LevelWarn}, []slog.Level{slog.LevelDebug}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Setup(tt.verbose, tt.quiet)
			assert.Same(t, logger.Handler(), slog.Default().Handler())
			for _, l := range tt.enabled {
				assert.True(t, logger.Enabled(ctx, l), "%s should be enabled", l)
			}
			for _, l := range tt.disabled {
				assert.False(t, logger.Enabled(ctx, l), "%s should be disabled", l)
			}
		})
	}
}

func TestSetupWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, false, false)
	logger.Info("dashboard rebuilt", "rows", 3)
	assert.Contains(t, buf.String(), "msg=\"dashboard rebuilt\" rows=3")
}
