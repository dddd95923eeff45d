//go:build unit
// +build unit

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(config.LogLevelWarning, &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestSlogLogger_FatalExits(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(config.LogLevelInfo, &buf).(*SlogLogger)

	code := -1
	logger.exit = func(c int) { code = c }
	logger.Fatal("fatal message")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "fatal message")
}

func TestSlogLogger_Panic(t *testing.T) {
	logger := NewNopLogger()
	assert.PanicsWithValue(t, "boom", func() { logger.Panic("boom") })
}

func TestNewFileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger := NewFileLogger(config.LogLevelInfo, logPath, 10, 3, 28)
	require.NotNil(t, logger)

	logger.Info("info message")
	logger.Error("error message")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	logOutput := string(content)
	assert.Contains(t, logOutput, "info message")
	assert.Contains(t, logOutput, "error message")
	assert.Contains(t, logOutput, `"level":"INFO"`)
	assert.Contains(t, logOutput, `"level":"ERROR"`)
}
