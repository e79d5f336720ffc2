package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "login")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "login", logger.component)
	assert.NotEmpty(t, logger.runID)
	assert.Equal(t, filepath.Join(dir, RunID()+"-douyin-uploader.log"), logger.LogPath())

	_, statErr := os.Stat(logger.LogPath())
	assert.NoError(t, statErr)
}

func TestNewLogger_FallbackOnBadDir(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	logger, err := NewLogger(filepath.Join(blocker, "logs"), "publish")
	require.Error(t, err)
	require.NotNil(t, logger)
	assert.Empty(t, logger.LogPath())
}

func TestLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("publish", &buf)

	logger.Debugf("debug %d", 1)
	logger.Infof("info %s", "two")
	logger.Warnf("warn")
	logger.Errorf("error: %v", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	for i, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		assert.Contains(t, lines[i], "[publish]")
		assert.Contains(t, lines[i], "["+level+"]")
	}
	assert.True(t, strings.HasSuffix(lines[3], "error: boom"))
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWriterLogger("uploader", &buf)

	child := parent.With("verify")
	child.Infof("challenge detected")

	assert.Contains(t, buf.String(), "[verify]")
	assert.Equal(t, parent.runID, child.runID)
}

func TestLoggerConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "concurrent")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Infof("message %d", n)
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 10)
}

func TestLoggerCloseIdempotent(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "close")
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
	assert.NoError(t, Nop().Close())
}
