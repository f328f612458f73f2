package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Usage(t *testing.T) {
	_, err := execute(t, "")
	var usage *usageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "Usage: ttedit [flags] <file>", usage.Error())

	_, err = execute(t, "", "a.txt", "b.txt")
	assert.ErrorAs(t, err, &usage)
}

func TestRootCmd_Version(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit unknown")
}

func TestRootCmd_EditSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o600))

	out, err := execute(t, "r 0\nONE\nsave\nt\nq\n", "--no-watch", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced.")
	assert.Contains(t, out, "replace line 0")
	assert.Contains(t, out, "Bye.")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ONE\ntwo\n", string(data))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(backup))
}

func TestRootCmd_ReadOnlyFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ro.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o600))

	out, err := execute(t, "d 0\ny\n", "-R", "--no-watch", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Session is read-only.")
}

func TestRootCmd_BadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o600))

	_, err := execute(t, "", "--config", filepath.Join(dir, "missing.toml"), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRootCmd_LogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	logPath := filepath.Join(dir, "tt.log")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o600))

	_, err := execute(t, "", "--debug", "--no-watch", "--log-file", logPath, path)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded file")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "notes.txt"), expandPath("~/notes.txt"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))

	abs, _ := filepath.Abs("rel.txt")
	assert.Equal(t, abs, expandPath("rel.txt"))
	assert.Equal(t, "", optionalPath(""))
}
