package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/a11ykraft/a11ykraft/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(slog.LevelDebug, "text", &buf)

	logging.New("orchestrator").Info("hello")

	assert.Contains(t, buf.String(), "component=orchestrator")
	assert.Contains(t, buf.String(), "hello")
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(slog.LevelInfo, "json", &buf)

	logging.New("export").Info("rendered")

	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"component":"export"`)
}

func TestInit_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(slog.LevelWarn, "text", &buf)

	logger := logging.New("gate")
	logger.Info("suppressed")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}
