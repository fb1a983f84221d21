package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":       zapcore.InfoLevel,
		"debug":  zapcore.DebugLevel,
		"WARN":   zapcore.WarnLevel,
		"bogus":  zapcore.InfoLevel,
		" error": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		logger, err := New(in)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(want), "level %q", in)
		if want > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(want-1), "level %q", in)
		}
	}
}
