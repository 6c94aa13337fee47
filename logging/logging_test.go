package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().FromBuffer(&buf).Level("warn").Make()
	require.NoError(t, err)
	defer l.Close()

	l.Info().Msg("dropped")
	l.Warn().Str("cmd", "approveBorrow").Msg("command rejected")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"cmd":"approveBorrow"`)
	assert.Contains(t, out, `"time":`)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olilab.log")
	var buf bytes.Buffer
	l, err := New().FromBuffer(&buf).FromPath(path).Make()
	require.NoError(t, err)

	l.Info().Msg("listening")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "listening")
	assert.Contains(t, buf.String(), "listening")
}

func TestUnknownLevelKeepsDefault(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().FromBuffer(&buf).Level("loud").Make()
	require.NoError(t, err)
	l.Info().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
