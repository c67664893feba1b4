// Package verify cross-checks a match set produced by the Boyer-Moore scan
// against an independent occurrence finder.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corey/bmsearch/internal/ports"
)

// ErrMismatch is matched by every *Mismatch.
var ErrMismatch = errors.New("verification mismatch")

// maxListed caps how many offsets a Mismatch message spells out.
const maxListed = 8

// Mismatch describes where two ascending offset lists disagree.
type Mismatch struct {
	Missing []int `json:"missing,omitempty"` // reported by the oracle only
	Extra   []int `json:"extra,omitempty"`   // reported by the scan only
}

func (m *Mismatch) Error() string {
	var parts []string
	if len(m.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d missing %s", len(m.Missing), listOffsets(m.Missing)))
	}
	if len(m.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("%d unexpected %s", len(m.Extra), listOffsets(m.Extra)))
	}
	return fmt.Sprintf("%s: %s", ErrMismatch, strings.Join(parts, ", "))
}

func (m *Mismatch) Unwrap() error { return ErrMismatch }

func listOffsets(offsets []int) string {
	shown := offsets
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	strs := make([]string, len(shown))
	for i, o := range shown {
		strs[i] = fmt.Sprint(o)
	}
	s := "[" + strings.Join(strs, " ")
	if len(offsets) > maxListed {
		s += " ..."
	}
	return s + "]"
}

// Compare merges two ascending offset lists. It returns nil when they are
// identical.
func Compare(got, want []int) *Mismatch {
	var m Mismatch
	i, j := 0, 0
	for i < len(got) || j < len(want) {
		switch {
		case j >= len(want) || (i < len(got) && got[i] < want[j]):
			m.Extra = append(m.Extra, got[i])
			i++
		case i >= len(got) || want[j] < got[i]:
			m.Missing = append(m.Missing, want[j])
			j++
		default:
			i++
			j++
		}
	}
	if len(m.Missing) == 0 && len(m.Extra) == 0 {
		return nil
	}
	return &m
}

// Check asks v for the occurrences of pattern in text and compares them
// with got. A disagreement is returned as a *Mismatch.
func Check(v ports.Verifier, text, pattern []byte, got []int) error {
	if m := Compare(got, v.Occurrences(text, pattern)); m != nil {
		return m
	}
	return nil
}
