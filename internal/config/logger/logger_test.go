package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiki/internal/config"
)

func Test_NewLogger(t *testing.T) {
	cfg := config.DefaultConfig()

	log := NewLogger(cfg)

	assert.NotNil(t, log)
	_, ok := log.(*AppLogger)
	assert.True(t, ok)
}

func Test_NewLoggerWithOutput_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""

	var buf bytes.Buffer
	log := NewLoggerWithOutput(cfg, &buf)

	assert.NotNil(t, log)
	assert.Equal(t, InfoLevel, cfg.Logging.Level)
	assert.Equal(t, ConsoleFormat, cfg.Logging.Format)
}

func Test_Logger_WritesJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = DebugLevel
	cfg.Logging.Format = JSONFormat

	var buf bytes.Buffer
	log := NewLoggerWithOutput(cfg, &buf)

	log.Info().Str("service", "kafka").Msg("status checked")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "status checked", record["message"])
	assert.Equal(t, "kafka", record["service"])
	assert.Equal(t, config.Version, record["version"])
}

func Test_Logger_LevelFiltering(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = ErrorLevel
	cfg.Logging.Format = JSONFormat

	var buf bytes.Buffer
	log := NewLoggerWithOutput(cfg, &buf)

	log.Debug().Msg("dropped")
	log.Info().Msg("dropped")
	log.Warn().Msg("dropped")

	assert.Empty(t, buf.Bytes())

	log.Error().Msg("kept")
	assert.NotEmpty(t, buf.Bytes())
}

func Test_WithComponent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Format = JSONFormat

	var buf bytes.Buffer
	log := NewLoggerWithOutput(cfg, &buf)

	scoped := log.WithComponent("WORKFLOW")
	scoped.Info().Msg("run started")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "WORKFLOW", record["component"])
}

func Test_GetLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{TraceLevel, zerolog.TraceLevel},
		{DebugLevel, zerolog.DebugLevel},
		{InfoLevel, zerolog.InfoLevel},
		{WarnLevel, zerolog.WarnLevel},
		{ErrorLevel, zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.level))
		})
	}
}
