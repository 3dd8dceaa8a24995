package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() {
		log.SetDefault(prev)
		Logger = prev
	})
}

func TestInitWritesLogFile(t *testing.T) {
	restoreDefault(t)
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := Init(Config{Dir: dir})
	require.NoError(t, err)
	require.NotNil(t, l)

	Info("daily selection built", "new", 25)
	Debug("not written at info level")

	data, err := os.ReadFile(filepath.Join(dir, "vocabday.log"))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "daily selection built")
	assert.Contains(t, out, "new=25")
	assert.False(t, strings.Contains(out, "not written"))
}

func TestInitDebugLevel(t *testing.T) {
	restoreDefault(t)
	l, err := Init(Config{Debug: true})
	require.NoError(t, err)

	assert.Equal(t, log.DebugLevel, l.GetLevel())
	assert.Same(t, l, Logger)
}

func TestLogFunctionsBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Debug("Test debug message")
		Info("Test info message")
		Warn("Test warning message")
		Error("Test error message")
	})
}
