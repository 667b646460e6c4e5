package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapterWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Info("Pipeline", "image enhanced", map[string]interface{}{"width": 100})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Pipeline", entry["component"])
	assert.Equal(t, "image enhanced", entry["message"])
	assert.EqualValues(t, 100, entry["width"])
}

func TestZerologAdapterError(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Error("Saver", errors.New("disk full"), nil)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug("X", "hidden", nil)
	log.Info("X", "hidden", map[string]interface{}{"k": "v"})
	assert.Zero(t, buf.Len())

	log.Warning("X", "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestNopDiscards(t *testing.T) {
	log := NewNop()
	log.Info("X", "nothing", map[string]interface{}{"a": 1})
	log.Error("X", errors.New("nothing"), nil)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		debugAll bool
		want     zerolog.Level
	}{
		{"debug", false, zerolog.DebugLevel},
		{"WARN", false, zerolog.WarnLevel},
		{"error", true, zerolog.ErrorLevel},
		{"", false, zerolog.InfoLevel},
		{"", true, zerolog.DebugLevel},
		{"verbose", false, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.name, tt.debugAll), "%q debugAll=%v", tt.name, tt.debugAll)
	}
}
