package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ticket.log")
	logger, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("submit_started")
	require.NoError(t, logger.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"submit_started"`)
	assert.Contains(t, string(b), `"ts":`)
}

func TestNewWithoutFileIsNop(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	logger.Info("dropped")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty", File: filepath.Join(t.TempDir(), "x.log")})
	assert.Error(t, err)
}
