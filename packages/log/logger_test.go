package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		level     string
		format    Format
		addSource bool
	}{
		{name: "defaults", env: map[string]string{}, level: "warn", format: FormatText},
		{name: "LOG_LEVEL", env: map[string]string{"LOG_LEVEL": "DEBUG"}, level: "debug", format: FormatText},
		{
			name:   "FIXSPEC_LOG_LEVEL wins over LOG_LEVEL",
			env:    map[string]string{"LOG_LEVEL": "error", "FIXSPEC_LOG_LEVEL": "info"},
			level:  "info",
			format: FormatText,
		},
		{
			name:      "FIXSPEC_DEBUG",
			env:       map[string]string{"FIXSPEC_DEBUG": "1", "FIXSPEC_LOG_LEVEL": "error"},
			level:     "debug",
			format:    FormatText,
			addSource: true,
		},
		{name: "LOG_FORMAT", env: map[string]string{"LOG_FORMAT": "JSON"}, level: "warn", format: FormatJSON},
		{
			name:   "FIXSPEC_LOG_FORMAT wins over LOG_FORMAT",
			env:    map[string]string{"LOG_FORMAT": "json", "FIXSPEC_LOG_FORMAT": "text"},
			level:  "warn",
			format: FormatText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"FIXSPEC_DEBUG", "FIXSPEC_LOG_LEVEL", "LOG_LEVEL", "FIXSPEC_LOG_FORMAT", "LOG_FORMAT"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := FromEnv()
			assert.Equal(t, tt.level, cfg.Level)
			assert.Equal(t, tt.format, cfg.Format)
			assert.Equal(t, tt.addSource, cfg.AddSource)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json output with run context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
		logger = WithRunContext(logger, "run-1", "tests")
		WithInstance(logger, `a\test_one`, "a1").Info("finished", Error(errors.New("boom")))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "finished", entry["msg"])
		assert.Equal(t, "run-1", entry[RunIDKey])
		assert.Equal(t, "tests", entry[SuiteKey])
		assert.Equal(t, `a\test_one`, entry[TestKey])
		assert.Equal(t, "a1", entry[RunKey])
		assert.Equal(t, "boom", entry["error"])
	})

	t.Run("text output respects the level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "warn", Format: FormatText, Output: &buf})
		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("trace is below debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "debug", Output: &buf})
		Trace(logger, "fixture called")
		assert.Empty(t, buf.String())

		logger = New(&Config{Level: "trace", Output: &buf})
		Trace(logger, "fixture called", slog.String(FixtureKey, "setup"))
		assert.True(t, strings.Contains(buf.String(), "fixture=setup"))
	})

	t.Run("instance without run", func(t *testing.T) {
		var buf bytes.Buffer
		WithInstance(New(&Config{Level: "info", Output: &buf}), "test_one", "").Info("x")
		assert.NotContains(t, buf.String(), RunKey+"=")
	})
}
