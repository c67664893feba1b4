package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/bmsearch/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseSearchArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		text    *string
		stdin   bool
		files   []string
		isStdin bool
		wantErr string
	}{
		{name: "pattern and files", args: []string{"AB", "a.txt", "b.txt"}, files: []string{"a.txt", "b.txt"}},
		{name: "text flag", args: []string{"AB"}, text: strPtr("AAAB")},
		{name: "empty text flag is still input", args: []string{"AB"}, text: strPtr("")},
		{name: "stdin pipe", args: []string{"AB"}, stdin: true, isStdin: true},
		{name: "files beat stdin", args: []string{"AB", "a.txt"}, stdin: true, files: []string{"a.txt"}},
		{name: "no pattern", args: nil, wantErr: "no pattern"},
		{name: "no input", args: []string{"AB"}, wantErr: "no input"},
		{name: "text and files", args: []string{"AB", "a.txt"}, text: strPtr("x"), wantErr: "cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseSearchArgs(tt.args, tt.text, tt.stdin)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []byte(tt.args[0]), req.pattern)
			assert.Equal(t, tt.isStdin, req.stdin)
			if len(tt.files) > 0 {
				assert.Equal(t, tt.files, req.files)
			} else {
				assert.Empty(t, req.files)
			}
		})
	}
}

func TestParseSearchArgs_EmptyPatternAllowed(t *testing.T) {
	req, err := parseSearchArgs([]string{""}, strPtr("abc"), false)
	require.NoError(t, err)
	assert.Empty(t, req.pattern)
}

type sessionOpts struct {
	pattern  string
	trace    bool
	withName bool
	quiet    bool
	json     bool
	count    bool
}

func newTestSession(t *testing.T, o sessionOpts) (*searchSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	settings := app.DefaultSettings()
	settings.Trace = o.trace
	a, err := app.New(app.Config{ProjectRoot: t.TempDir(), Settings: settings, NoHistory: true})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	m, err := a.Compile([]byte(o.pattern))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	return &searchSession{
		app:      a,
		settings: settings,
		matcher:  m,
		pattern:  []byte(o.pattern),
		out:      &stdout,
		errOut:   &stderr,
		withName: o.withName,
		quiet:    o.quiet,
		json:     o.json,
		count:    o.count,
	}, &stdout, &stderr
}

func TestSearchSession_Match(t *testing.T) {
	s, stdout, stderr := newTestSession(t, sessionOpts{pattern: "AB"})
	s.search(app.Source{Name: "<text>", Text: []byte("AAAAAAB")}, "")

	assert.NoError(t, s.finish())
	assert.Equal(t, "5\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestSearchSession_Overlapping(t *testing.T) {
	s, stdout, _ := newTestSession(t, sessionOpts{pattern: "AA"})
	s.search(app.Source{Name: "<text>", Text: []byte("AAAA")}, "")
	assert.NoError(t, s.finish())
	assert.Equal(t, "0\n1\n2\n", stdout.String())
}

func TestSearchSession_NoMatchExitsOne(t *testing.T) {
	s, stdout, _ := newTestSession(t, sessionOpts{pattern: "XYZ"})
	s.search(app.Source{Name: "<text>", Text: []byte("AAAAAAB")}, "")

	err := s.finish()
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, stdout.String())
}

func TestSearchSession_DegenerateExitsTwo(t *testing.T) {
	s, _, stderr := newTestSession(t, sessionOpts{pattern: "ABC"})
	s.search(app.Source{Name: "<text>", Text: []byte("AB")}, "")

	assert.Equal(t, 2, ExitCode(s.finish()))
	assert.Contains(t, stderr.String(), "bmsearch: <text>: degenerate input: pattern is longer than the text")
}

func TestSearchSession_EmptyPatternExitsTwo(t *testing.T) {
	s, _, stderr := newTestSession(t, sessionOpts{pattern: ""})
	s.search(app.Source{Name: "<text>", Text: []byte("AB")}, "")

	assert.Equal(t, 2, ExitCode(s.finish()))
	assert.Contains(t, stderr.String(), "pattern is empty")
}

func TestSearchSession_FilesWithNames(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("needle hay needle"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("hay"), 0644))

	s, stdout, stderr := newTestSession(t, sessionOpts{pattern: "needle", withName: true})
	s.searchFile(a)
	s.searchFile(b)
	s.searchFile(filepath.Join(dir, "missing.txt"))

	// a match was found, but a file could not be read
	assert.Equal(t, 2, ExitCode(s.finish()))
	assert.Equal(t, a+":0\n"+a+":11\n", stdout.String())
	assert.Contains(t, stderr.String(), "missing.txt")
}

func TestSearchSession_QuietMatchWinsOverErrors(t *testing.T) {
	s, stdout, stderr := newTestSession(t, sessionOpts{pattern: "B", quiet: true})
	s.searchFile(filepath.Join(t.TempDir(), "missing.txt"))
	s.search(app.Source{Name: "<text>", Text: []byte("AB")}, "")

	assert.NoError(t, s.finish())
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestSearchSession_Count(t *testing.T) {
	s, stdout, _ := newTestSession(t, sessionOpts{pattern: "A", count: true, withName: true})
	s.search(app.Source{Name: "x.txt", Text: []byte("ABA")}, "")
	s.search(app.Source{Name: "y.txt", Text: []byte("BBB")}, "")

	assert.NoError(t, s.finish())
	assert.Equal(t, "x.txt:2\ny.txt:0\n", stdout.String())
}

func TestSearchSession_JSON(t *testing.T) {
	s, stdout, _ := newTestSession(t, sessionOpts{pattern: "ABAB", json: true})
	s.search(app.Source{Name: "<text>", Text: []byte("ABBBABAB")}, "")
	require.NoError(t, s.finish())

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "<text>", got[0]["source"])
	assert.Equal(t, []interface{}{float64(4)}, got[0]["matches"])
	assert.Equal(t, "none", got[0]["degenerate"])
	summary := got[0]["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["skipped"])
}

func TestSearchSession_JSONNoResults(t *testing.T) {
	s, stdout, _ := newTestSession(t, sessionOpts{pattern: "A", json: true})
	s.searchFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 2, ExitCode(s.finish()))
	assert.Equal(t, "[]\n", stdout.String())
}

func TestSearchSession_Trace(t *testing.T) {
	s, stdout, _ := newTestSession(t, sessionOpts{pattern: "AB", trace: true})
	s.search(app.Source{Name: "<text>", Text: []byte("AAAAAAB")}, "")
	require.NoError(t, s.finish())

	out := stdout.String()
	assert.Contains(t, out, "Step 1: Pattern aligned at index 0\n")
	assert.Contains(t, out, "Step 6: Pattern aligned at index 5\n")
	assert.Contains(t, out, "Pattern found at index: 5\n")
	assert.Contains(t, out, "The pattern matched the text at index: 5 \n")
	assert.Contains(t, out, "Total Skipped Characters: 0\n")
}
