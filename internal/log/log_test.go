package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetAndReset(t *testing.T) {
	t.Cleanup(Reset)

	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))

	path := filepath.Join(t.TempDir(), "debug.log")
	Set(path)
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	Get().Debug("fetching my data")
	Flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hardcover")
	assert.Contains(t, string(data), "fetching my data")

	Reset()
	assert.False(t, Get().Core().Enabled(zapcore.ErrorLevel))
}
