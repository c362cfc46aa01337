package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Init("predictor", "production", "warn", &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Str("k", "v").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "predictor", line["service"])
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "v", line["k"])
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := Init("predictor", "production", "loud", &buf)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger = Init("predictor", "production", "", &buf)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestInit_Development(t *testing.T) {
	var buf bytes.Buffer
	logger := Init("predictor", "development", "debug", &buf)
	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}
