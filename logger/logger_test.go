package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMessage = "test message"

// newBufferLogger builds a ZeroLogger writing JSON lines into buf.
func newBufferLogger(buf *bytes.Buffer, filterConfig *FilterConfig) *ZeroLogger {
	zl := zerolog.New(buf)
	return &ZeroLogger{zlog: &zl, filter: NewSensitiveDataFilter(filterConfig)}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		pretty        bool
		expectedLevel zerolog.Level
	}{
		{
			name:          "info_level_pretty",
			level:         "info",
			pretty:        true,
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "debug_level_not_pretty",
			level:         "debug",
			pretty:        false,
			expectedLevel: zerolog.DebugLevel,
		},
		{
			name:          "invalid_level_defaults_to_info",
			level:         "not_a_level",
			pretty:        false,
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "empty_level_uses_zerolog_default",
			level:         "",
			pretty:        true,
			expectedLevel: zerolog.NoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level, tt.pretty)

			require.NotNil(t, logger)
			require.NotNil(t, logger.zlog)
			require.NotNil(t, logger.filter)

			assert.Equal(t, tt.expectedLevel, logger.zlog.GetLevel())
			assert.Equal(t, DefaultMaskValue, logger.filter.config.MaskValue)
			assert.Contains(t, logger.filter.config.SensitiveFields, "password")
			assert.Contains(t, logger.filter.config.SensitiveFields, "authorization")
		})
	}
}

func TestNewWithFilter(t *testing.T) {
	tests := []struct {
		name         string
		filterConfig *FilterConfig
		expectedMask string
	}{
		{
			name: "custom_filter_config",
			filterConfig: &FilterConfig{
				SensitiveFields: []string{"custom_secret"},
				MaskValue:       "[HIDDEN]",
			},
			expectedMask: "[HIDDEN]",
		},
		{
			name:         "nil_filter_config_uses_default",
			filterConfig: nil,
			expectedMask: DefaultMaskValue,
		},
		{
			name: "empty_mask_value_gets_defaulted",
			filterConfig: &FilterConfig{
				SensitiveFields: []string{"test_field"},
			},
			expectedMask: DefaultMaskValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewWithFilter("info", false, tt.filterConfig)

			require.NotNil(t, logger)
			require.NotNil(t, logger.filter)
			assert.Equal(t, tt.expectedMask, logger.filter.config.MaskValue)
		})
	}
}

func TestWithContextNonContextValue(t *testing.T) {
	logger := New("info", false)

	assert.Same(t, Logger(logger), logger.WithContext("not a context"))
	assert.Same(t, Logger(logger), logger.WithContext(nil))
}

func TestWithContextAttachesZerolog(t *testing.T) {
	var buf bytes.Buffer
	base := New("info", false)

	zl := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()
	ctx := zl.WithContext(context.Background())

	bound := base.WithContext(ctx)
	require.NotSame(t, Logger(base), bound)

	bound.Info().Msg(testMessage)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), testMessage)
}

func TestWithContextPicksUpSeverityHook(t *testing.T) {
	var buf bytes.Buffer
	base := newBufferLogger(&buf, nil)

	var seen []zerolog.Level
	ctx := WithSeverityHook(context.Background(), func(lvl zerolog.Level) {
		seen = append(seen, lvl)
	})

	bound := base.WithContext(ctx)
	bound.Warn().Msg("careful")
	bound.Error().Msg("broken")
	bound.Info().Msg("calm")

	assert.Equal(t, []zerolog.Level{zerolog.WarnLevel, zerolog.ErrorLevel}, seen)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, nil)

	enriched := logger.WithFields(map[string]any{
		"component": "rest",
		"password":  "hunter2",
	})
	enriched.Info().Msg(testMessage)

	out := buf.String()
	assert.Contains(t, out, `"component":"rest"`)
	assert.Contains(t, out, `"password":"***"`)
	assert.NotContains(t, out, "hunter2")
}
