package boyermoore

import (
	"fmt"
	"sort"
	"strings"
)

// Alphabet is a closed set of permitted byte symbols.
type Alphabet struct {
	name    string
	allowed [AlphabetSize]bool
	size    int
}

// Built-in alphabets. Bytes accepts every byte and never rejects input.
var (
	Bytes = newAlphabetFunc("bytes", func(byte) bool { return true })
	ASCII = newAlphabetFunc("ascii", func(b byte) bool { return b < 0x80 })
	DNA   = NewAlphabet("dna", []byte("ACGT"))
)

var alphabets = map[string]*Alphabet{
	Bytes.name: Bytes,
	ASCII.name: ASCII,
	DNA.name:   DNA,
}

// NewAlphabet builds an alphabet from an explicit symbol list.
func NewAlphabet(name string, symbols []byte) *Alphabet {
	a := &Alphabet{name: name}
	for _, b := range symbols {
		if !a.allowed[b] {
			a.allowed[b] = true
			a.size++
		}
	}
	return a
}

func newAlphabetFunc(name string, allow func(byte) bool) *Alphabet {
	a := &Alphabet{name: name}
	for i := 0; i < AlphabetSize; i++ {
		if allow(byte(i)) {
			a.allowed[i] = true
			a.size++
		}
	}
	return a
}

// AlphabetByName resolves one of the built-in alphabet names (case-insensitive).
func AlphabetByName(name string) (*Alphabet, error) {
	a, ok := alphabets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown alphabet %q (want one of %s)", name, strings.Join(AlphabetNames(), ", "))
	}
	return a, nil
}

// AlphabetNames lists the built-in alphabet names, sorted.
func AlphabetNames() []string {
	names := make([]string, 0, len(alphabets))
	for n := range alphabets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a *Alphabet) Name() string { return a.name }

// Size is the number of permitted symbols.
func (a *Alphabet) Size() int { return a.size }

func (a *Alphabet) Contains(b byte) bool { return a.allowed[b] }

// validate returns a *SymbolError for the first byte of seq outside a.
func (a *Alphabet) validate(seq []byte, input string) error {
	if a.size == AlphabetSize {
		return nil
	}
	for i, b := range seq {
		if !a.allowed[b] {
			return &SymbolError{Input: input, Index: i, Symbol: b, Alphabet: a.name}
		}
	}
	return nil
}
