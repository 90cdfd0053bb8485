package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/amix-engine/internal/config"
)

func TestSetupWithWriter_Production(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWithWriter(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithSession(log, "abc").Info("Pet created", "name", "Amix")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Pet created", entry["msg"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, "Amix", entry["name"])
}

func TestSetupWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWithWriter(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestSetup_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amix.log")
	log, closer, err := Setup(&config.Config{LogFile: path, LogLevel: slog.LevelInfo})
	require.NoError(t, err)

	log.Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
