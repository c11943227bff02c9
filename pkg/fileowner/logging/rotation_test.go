package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
)

func countLogs(t *testing.T, dir, prefix string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".log") {
			n++
		}
	}
	return n
}

func TestRotationBySize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := logging.NewRotatingWriter(filepath.Join(dir, "size.log"), logging.RotationConfig{
		MaxSize: 256,
	})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		_, err := w.Write([]byte(strings.Repeat("x", 50) + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	assert.GreaterOrEqual(t, countLogs(t, dir, "size"), 2)
}

func TestRotationMaxBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := logging.NewRotatingWriter(filepath.Join(dir, "backups.log"), logging.RotationConfig{
		MaxSize:    128,
		MaxBackups: 2,
	})
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		_, err := w.Write([]byte(strings.Repeat("y", 40) + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	// Current file plus at most two rotated ones.
	assert.LessOrEqual(t, countLogs(t, dir, "backups"), 3)
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	t.Parallel()

	w, err := logging.NewRotatingWriter(filepath.Join(t.TempDir(), "closed.log"), logging.RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late\n"))
	assert.Error(t, err)
}

func TestRotatingWriter_CreatesParentDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "app.log")
	w, err := logging.NewRotatingWriter(path, logging.DefaultRotationConfig())
	require.NoError(t, err)
	defer w.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
