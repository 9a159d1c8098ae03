package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "appointment-store", "debug")
	l.Error().Stack().Err(errors.New("boom")).Msg("failed")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "appointment-store", m["service"])
	assert.Equal(t, "error", m["level"])
	assert.Equal(t, "boom", m["error"])
	assert.NotNil(t, m["stack"], "stack must be attached")
	assert.NotEmpty(t, m["time"])
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "svc", "warn")
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsole(&buf, false)
	l.Debug().Msg("quiet")
	l.Warn().Msg("loud")
	assert.False(t, strings.Contains(buf.String(), "quiet"))
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
}
