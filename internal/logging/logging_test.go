package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	require.NoError(t, err)

	logger.Debugw("hidden", "k", 1)
	logger.Infow("Clippy results", "errors", 2)
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "Clippy results")
	assert.Contains(t, out, `"errors"`)
}

func TestNew_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Debug: true, Output: &buf})
	require.NoError(t, err)

	logger.Debug("skipping line")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "skipping line")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{JSON: true, Output: &buf})
	require.NoError(t, err)

	logger.Warnw("check run creation failed", "fork", true)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "check run creation failed", entry["msg"])
	assert.Equal(t, true, entry["fork"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Errorw("discarded", "k", "v") })
}
