package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARNING,
		"warn":    WARNING,
		"error":   ERROR,
		"fatal":   FATAL,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetLevel(t *testing.T) {
	// shares the global atomic level, so no t.Parallel()
	defer SetLevel(INFO)

	SetLevel(ERROR)
	assert.Equal(t, zapcore.ErrorLevel, atom.Level())
	SetLevel(DEBUG)
	assert.Equal(t, zapcore.DebugLevel, atom.Level())
}
