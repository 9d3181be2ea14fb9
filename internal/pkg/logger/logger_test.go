package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"garbage", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		log, err := New(tt.level, "json", "stderr")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(tt.expected), "level %q", tt.level)
		if tt.expected > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(tt.expected-1), "level %q", tt.level)
		}
	}
}

func TestNew_ConsoleEncoding(t *testing.T) {
	log, err := New("info", "console")
	require.NoError(t, err)
	assert.NotNil(t, log)
}
