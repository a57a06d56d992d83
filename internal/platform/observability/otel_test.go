package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseLevel(raw), raw)
	}
}

func TestInstrumentsFallBackWhenNil(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler("").Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler("1.5").Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler("0.25").Description(), "TraceIDRatioBased{0.25}")
}
