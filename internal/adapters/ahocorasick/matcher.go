// Package ahocorasick provides an independent occurrence finder built on an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick library
// and serves as the verification oracle for the Boyer-Moore core: the two
// algorithms share no code, so agreement between them is meaningful.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Oracle implements ports.Verifier. It is stateless; each call builds a
// one-pattern automaton.
type Oracle struct {
	opts aho.Opts
}

// NewOracle returns an oracle using a DFA-backed automaton.
func NewOracle() *Oracle {
	return &Oracle{opts: aho.Opts{DFA: true}}
}

// Occurrences returns the start offset of every occurrence of pattern in
// text, overlaps included, in ascending order.
func (o *Oracle) Occurrences(text, pattern []byte) []int {
	if len(pattern) == 0 || len(text) < len(pattern) {
		return nil
	}
	builder := aho.NewAhoCorasickBuilder(o.opts)
	automaton := builder.Build([]string{string(pattern)})

	// Overlapping iteration reports matches by end position; with a single
	// fixed-length pattern that is also start order.
	iter := automaton.IterOverlappingByte(text)
	var starts []int
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		starts = append(starts, m.Start())
	}
	return starts
}
