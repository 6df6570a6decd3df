package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	l, err := New("", "debug")
	require.NoError(t, err)
	l.Info("dropped", "k", "v")
	l.Sync()
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trane.log")
	l, err := New(path, "info")
	require.NoError(t, err)

	l.With("component", "test").Info("opened library", "path", "/tmp/lib")
	l.Debug("below level")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"opened library"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"path":"/tmp/lib"`)
	assert.NotContains(t, out, "below level")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}
