package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "aion dev")
}

func TestRun_Usage(t *testing.T) {
	assert.ErrorIs(t, run(nil, &bytes.Buffer{}, &bytes.Buffer{}), errUsage)
	assert.Error(t, run([]string{"--bogus"}, &bytes.Buffer{}, &bytes.Buffer{}))
}

func TestRun_Script(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "moves.txt")
	require.NoError(t, os.WriteFile(script, []byte("# look around\nstatus\n/quit\n"), 0o644))

	var out bytes.Buffer
	err := run([]string{"--script", script, "--seed", "5", "../../loader/testdata/shrine"}, &out, &bytes.Buffer{})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Shrine of the Aion v0.1 by Tester")
	assert.Contains(t, output, "Two slimes block the shrine gate.")
	assert.Contains(t, output, "Hero's turn.")
	assert.Contains(t, output, "> status\n")
	assert.Contains(t, output, "Slime #2 (40/40 HP")
	assert.NotContains(t, output, "# look around")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("first_side: sideways\n"), 0o644))

	err := run([]string{"--config", filepath.Join(dir, "bad.yaml"), "../../loader/testdata/shrine"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "loading settings")

	err = run([]string{"--plain", dir}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "loading battle")

	err = run([]string{"--plain", "--encounter", "nowhere", "../../loader/testdata/shrine"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "starting battle")
}

func TestLogOutput(t *testing.T) {
	var stderr bytes.Buffer

	w, closeLog, err := logOutput("", false, &stderr)
	require.NoError(t, err)
	assert.Same(t, &stderr, w)
	assert.NoError(t, closeLog())

	w, closeLog, err = logOutput("", true, &stderr)
	require.NoError(t, err)
	assert.Equal(t, io.Discard, w, "the full-screen UI keeps stderr clean")
	assert.NoError(t, closeLog())

	path := filepath.Join(t.TempDir(), "aion.log")
	w, closeLog, err = logOutput(path, true, &stderr)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello\n")
	require.NoError(t, err)
	require.NoError(t, closeLog())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	_, _, err = logOutput(filepath.Join(t.TempDir(), "missing", "aion.log"), false, &stderr)
	assert.ErrorContains(t, err, "opening log file")
}

func TestRun_LogFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "moves.txt")
	require.NoError(t, os.WriteFile(script, []byte("/quit\n"), 0o644))
	logPath := filepath.Join(dir, "aion.log")

	var stderr bytes.Buffer
	err := run([]string{"--script", script, "--seed", "5", "--log", logPath, "../../loader/testdata/shrine"}, &bytes.Buffer{}, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "battle starting")
	assert.NotContains(t, stderr.String(), "battle starting")
}
