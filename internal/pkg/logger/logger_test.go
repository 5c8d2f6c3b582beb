package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDailyWriterRollsByDay(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	w, err := NewDailyWriter(dir)
	require.NoError(t, err)

	day := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }
	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)

	day = day.Add(2 * time.Minute)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(dir, "assist_2025-03-09.log"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "assist_2025-03-10.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(a))
	assert.Equal(t, "second\n", string(b))
}

func TestDailyWriterIgnoresEmptyWrites(t *testing.T) {
	w, err := NewDailyWriter(t.TempDir())
	require.NoError(t, err)
	n, err := w.Write(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewWithoutDir(t *testing.T) {
	log, err := New("", true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
