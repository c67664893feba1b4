package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedVerifier []int

func (f fixedVerifier) Occurrences(text, pattern []byte) []int { return f }

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		got     []int
		want    []int
		missing []int
		extra   []int
		equal   bool
	}{
		{name: "both empty", equal: true},
		{name: "nil vs empty", got: nil, want: []int{}, equal: true},
		{name: "identical", got: []int{1, 4, 9}, want: []int{1, 4, 9}, equal: true},
		{name: "missing tail", got: []int{1}, want: []int{1, 5}, missing: []int{5}},
		{name: "extra head", got: []int{0, 3}, want: []int{3}, extra: []int{0}},
		{name: "interleaved", got: []int{1, 2, 7}, want: []int{2, 5, 7, 8}, missing: []int{5, 8}, extra: []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compare(tt.got, tt.want)
			if tt.equal {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.missing, m.Missing)
			assert.Equal(t, tt.extra, m.Extra)
		})
	}
}

func TestMismatch_Error(t *testing.T) {
	m := &Mismatch{Missing: []int{5}, Extra: []int{1, 2}}
	assert.Equal(t, "verification mismatch: 1 missing [5], 2 unexpected [1 2]", m.Error())
	assert.True(t, errors.Is(m, ErrMismatch))
}

func TestMismatch_ErrorTruncates(t *testing.T) {
	m := &Mismatch{Missing: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	assert.Equal(t, "verification mismatch: 10 missing [0 1 2 3 4 5 6 7 ...]", m.Error())
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(fixedVerifier{5}, []byte("AAAAAAB"), []byte("AB"), []int{5}))

	err := Check(fixedVerifier{5}, []byte("AAAAAAB"), []byte("AB"), nil)
	var m *Mismatch
	require.ErrorAs(t, err, &m)
	assert.Equal(t, []int{5}, m.Missing)
}
