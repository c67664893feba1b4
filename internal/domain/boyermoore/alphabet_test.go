package boyermoore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetByName(t *testing.T) {
	for _, name := range []string{"bytes", "ASCII", "dna"} {
		a, err := AlphabetByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, a)
	}

	_, err := AlphabetByName("klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ascii, bytes, dna")
}

func TestAlphabet_Sizes(t *testing.T) {
	assert.Equal(t, 256, Bytes.Size())
	assert.Equal(t, 128, ASCII.Size())
	assert.Equal(t, 4, DNA.Size())
	assert.Equal(t, 2, NewAlphabet("bin", []byte("0101")).Size())
}

func TestCompile_RejectsPatternOutsideAlphabet(t *testing.T) {
	_, err := Compile([]byte("ACGU"), WithAlphabet(DNA))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	var se *SymbolError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "pattern", se.Input)
	assert.Equal(t, 3, se.Index)
	assert.Equal(t, byte('U'), se.Symbol)
	assert.Equal(t, "dna", se.Alphabet)
}

func TestScan_RejectsTextBeforeScanning(t *testing.T) {
	m := MustCompile([]byte("GA"), WithAlphabet(DNA))

	var events int
	res, err := m.Scan([]byte("GAGAxGA"), SinkFunc(func(Event) { events++ }))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Zero(t, events, "no alignment may be reported for rejected text")

	var se *SymbolError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "text", se.Input)
	assert.Equal(t, 4, se.Index)
}

func TestScan_DegenerateBeatsAlphabetCheck(t *testing.T) {
	m := MustCompile([]byte("GATTACA"), WithAlphabet(DNA))
	res, err := m.Scan([]byte("xx"), nil)
	require.NoError(t, err)
	assert.Equal(t, PatternTooLong, res.Degenerate)
}

func TestScan_ASCIIAlphabet(t *testing.T) {
	m := MustCompile([]byte("lo"), WithAlphabet(ASCII))
	res, err := m.Scan([]byte("hello, world"), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, res.Matches)

	_, err = m.Scan([]byte("hell\xc3\xb6"), nil)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestWithAlphabet_NilKeepsDefault(t *testing.T) {
	m := MustCompile([]byte{0xff}, WithAlphabet(nil))
	assert.Equal(t, "bytes", m.Alphabet().Name())
}
