package boyermoore

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput is matched by both degenerate-input errors. A degenerate
// input is not a fault: no scan is performed and no match is reported.
var ErrDegenerateInput = errors.New("degenerate input")

var (
	ErrEmptyPattern   = fmt.Errorf("%w: pattern is empty", ErrDegenerateInput)
	ErrPatternTooLong = fmt.Errorf("%w: pattern is longer than the text", ErrDegenerateInput)
)

// ErrInvalidSymbol is matched by every SymbolError.
var ErrInvalidSymbol = errors.New("invalid symbol")

// SymbolError reports a byte outside the matcher's alphabet.
type SymbolError struct {
	Input    string // "pattern" or "text"
	Index    int
	Symbol   byte
	Alphabet string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s byte 0x%02x at index %d is outside the %s alphabet",
		e.Input, e.Symbol, e.Index, e.Alphabet)
}

func (e *SymbolError) Unwrap() error {
	return ErrInvalidSymbol
}

// Degenerate tells why a search was not performed.
type Degenerate int

const (
	NotDegenerate Degenerate = iota
	EmptyPattern
	PatternTooLong
)

func (d Degenerate) String() string {
	switch d {
	case EmptyPattern:
		return "empty_pattern"
	case PatternTooLong:
		return "pattern_too_long"
	default:
		return "none"
	}
}

// Err returns the sentinel for d, or nil when the search ran.
func (d Degenerate) Err() error {
	switch d {
	case EmptyPattern:
		return ErrEmptyPattern
	case PatternTooLong:
		return ErrPatternTooLong
	default:
		return nil
	}
}

// MarshalText encodes d by name for JSON payloads.
func (d Degenerate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (d *Degenerate) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*d = NotDegenerate
	case "empty_pattern":
		*d = EmptyPattern
	case "pattern_too_long":
		*d = PatternTooLong
	default:
		return fmt.Errorf("unknown degenerate reason %q", b)
	}
	return nil
}
