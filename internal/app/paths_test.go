package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, filepath.Join("/project", ".bmsearch"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".bmsearch", "bmsearch.db"), p.DB)
	assert.Equal(t, filepath.Join("/project", ".bmsearch", "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/project", ".bmsearch", "log"), p.LogDir)
	assert.Equal(t, filepath.Join("/project", ".bmsearch", "log", "daemon.log"), p.DaemonLog)
	assert.Equal(t, filepath.Join("/project", ".bmsearch", "run"), p.RunDir)
	assert.Equal(t, filepath.Join("/project", ".bmsearch", "run", "daemon.pid"), p.PIDFile)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent.
	require.NoError(t, p.EnsureDirs())
}

func TestPIDFile(t *testing.T) {
	p := NewPaths(t.TempDir())
	require.NoError(t, p.EnsureDirs())

	assert.Equal(t, 0, p.ReadPID())

	require.NoError(t, p.WritePID(4242))
	assert.Equal(t, 4242, p.ReadPID())

	p.CleanEphemeral()
	_, err := os.Stat(p.PIDFile)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, p.ReadPID())
}

func TestReadPID_Garbage(t *testing.T) {
	p := NewPaths(t.TempDir())
	require.NoError(t, p.EnsureDirs())
	require.NoError(t, os.WriteFile(p.PIDFile, []byte("not-a-pid"), 0644))
	assert.Equal(t, 0, p.ReadPID())
}
