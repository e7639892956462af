package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter_JSONLevel(t *testing.T) {
	t.Cleanup(func() { Setup("info", "console") })

	var buf bytes.Buffer
	SetupWriter(&buf, "WARN", "json")
	log.Info().Msg("dropped")
	log.Warn().Str("driver", "sqlite").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "sqlite", entry["driver"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestSetupWriter_ReconfigureAfterBootstrap(t *testing.T) {
	t.Cleanup(func() { Setup("info", "console") })

	var boot, final bytes.Buffer
	SetupWriter(&boot, "info", "console")
	log.Info().Msg("Using config file: triage.yaml")
	assert.Contains(t, boot.String(), "Using config file")

	SetupWriter(&final, "bogus", "json")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Info().Msg("Connected to database")
	assert.Contains(t, final.String(), `"message":"Connected to database"`)
	assert.NotContains(t, boot.String(), "Connected to database")
}
