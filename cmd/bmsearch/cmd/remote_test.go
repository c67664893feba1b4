package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/bmsearch/internal/adapters/ahocorasick"
	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRemoteSession is newTestSession wired to a daemon on a temp socket
// instead of a local matcher.
func newRemoteSession(t *testing.T, o sessionOpts) (*searchSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	s, stdout, stderr := newTestSession(t, o)

	sockPath := filepath.Join(t.TempDir(), "d.sock")
	srv := socket.NewServer(sockPath, ahocorasick.NewOracle(), nil)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	s.client = socket.NewClient(sockPath)
	s.matcher = nil
	return s, stdout, stderr
}

func TestRemoteSearch_Match(t *testing.T) {
	s, stdout, stderr := newRemoteSession(t, sessionOpts{pattern: "AB"})
	s.search(app.Source{Name: "<text>", Text: []byte("AAAAAAB")}, "")

	assert.NoError(t, s.finish())
	assert.Equal(t, "5\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRemoteSearch_FilesWithNames(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("needle hay needle"), 0644))

	s, stdout, stderr := newRemoteSession(t, sessionOpts{pattern: "needle", withName: true})
	s.searchFile(a)
	s.searchFile(filepath.Join(dir, "missing.txt"))

	assert.Equal(t, 2, ExitCode(s.finish()))
	assert.Equal(t, a+":0\n"+a+":11\n", stdout.String())
	assert.Contains(t, stderr.String(), "missing.txt")
}

func TestRemoteSearch_ExitCodes(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		s, stdout, _ := newRemoteSession(t, sessionOpts{pattern: "XYZ"})
		s.search(app.Source{Name: "<text>", Text: []byte("AAAAAAB")}, "")
		assert.Equal(t, 1, ExitCode(s.finish()))
		assert.Empty(t, stdout.String())
	})
	t.Run("degenerate", func(t *testing.T) {
		s, _, stderr := newRemoteSession(t, sessionOpts{pattern: "ABC"})
		s.search(app.Source{Name: "<text>", Text: []byte("AB")}, "")
		assert.Equal(t, 2, ExitCode(s.finish()))
		assert.Contains(t, stderr.String(), "<text>: degenerate input: pattern is longer than the text")
	})
}

func TestRemoteSearch_TraceMatchesLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("ABBBABAB"), 0644))

	local, localOut, _ := newTestSession(t, sessionOpts{pattern: "ABAB", trace: true})
	local.searchFile(path)
	require.NoError(t, local.finish())

	remote, remoteOut, stderr := newRemoteSession(t, sessionOpts{pattern: "ABAB", trace: true})
	remote.searchFile(path)
	require.NoError(t, remote.finish())

	assert.Empty(t, stderr.String())
	assert.Contains(t, remoteOut.String(), "Pattern found at index: 4\n")
	assert.Contains(t, remoteOut.String(), "Total Skipped Characters: 3\n")
	assert.Equal(t, localOut.String(), remoteOut.String())
}

func TestRemoteSearch_TraceUnreadableFile(t *testing.T) {
	s, stdout, stderr := newRemoteSession(t, sessionOpts{pattern: "AB", trace: true})
	s.searchFile(filepath.Join(t.TempDir(), "missing.txt"))

	assert.Equal(t, 2, ExitCode(s.finish()))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "missing.txt")
}

func TestRemoteSearch_VerifiedJSON(t *testing.T) {
	s, stdout, _ := newRemoteSession(t, sessionOpts{pattern: "AA", json: true})
	s.settings.Verify = true
	s.search(app.Source{Name: "<text>", Text: []byte("AAAA")}, "")
	require.NoError(t, s.finish())

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, []interface{}{float64(0), float64(1), float64(2)}, got[0]["matches"])
	assert.Equal(t, true, got[0]["verified"])
}
