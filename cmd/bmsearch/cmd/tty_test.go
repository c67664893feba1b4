package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		mode string
		tty  bool
		want bool
	}{
		{"always", false, true},
		{"always", true, true},
		{"never", true, false},
		{"never", false, false},
		{"auto", true, true},
		{"auto", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, colorFor(tt.mode, tt.tty), "mode=%q tty=%v", tt.mode, tt.tty)
	}
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	assert.False(t, isTerminal(f), "regular file")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.False(t, isTerminal(w), "pipe")

	require.NoError(t, f.Close())
	assert.False(t, isTerminal(f), "closed file")
}
