// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithWritersFansOut(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := NewWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("selected papers", "researcher", "Jane Doe", "selected", 3)

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), `msg="selected papers"`)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(file.Bytes()), &entry))
	assert.Equal(t, "selected papers", entry["msg"])
	assert.Equal(t, "Jane Doe", entry["researcher"])
	assert.Equal(t, float64(3), entry["selected"])
}

func TestSetupWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scholar-select.log")
	var stderr bytes.Buffer

	logger, cleanup := Setup(&stderr, slog.LevelDebug, path)
	logger.Debug("loading papers", "path", "dump.csv")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"loading papers"`)
	assert.Contains(t, stderr.String(), "loading papers")
}

func TestSetupWithoutFile(t *testing.T) {
	var stderr bytes.Buffer
	logger, cleanup := Setup(&stderr, slog.LevelWarn, "")
	logger.Info("quiet")
	logger.Warn("loud")
	require.NoError(t, cleanup())

	assert.False(t, strings.Contains(stderr.String(), "quiet"))
	assert.Contains(t, stderr.String(), "loud")
}

func TestSetupFallsBackWhenFileUnwritable(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer

	// A directory cannot be opened as a log file.
	logger, cleanup := Setup(&stderr, slog.LevelInfo, dir)
	require.NotNil(t, logger)
	require.NoError(t, cleanup())
	assert.Contains(t, stderr.String(), "failed to open log file")
}
