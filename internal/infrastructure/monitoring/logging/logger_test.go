package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)

	// Must not panic on any level or on child loggers.
	log.Debug("debug message", String("k", "v"))
	log.Info("info message", Int("rows", 42))
	log.Warn("warn message", Float64("accuracy", 0.92))
	log.Error("error message", Err(nil))
	log.With(String("run_id", "abc")).Named("pipeline").Info("child logger")
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewJSONFormat(t *testing.T) {
	log, err := New(Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	log.Info("structured entry", Any("payload", map[string]int{"k": 4}))
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Info("discarded")
	log.With(String("k", "v")).Error("also discarded")
}
