package boyermoore

import "fmt"

// Outcome is the result of comparing the pattern at one alignment.
type Outcome int

const (
	Mismatch Outcome = iota
	FullMatch
)

func (o Outcome) String() string {
	if o == FullMatch {
		return "match"
	}
	return "mismatch"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "match":
		*o = FullMatch
	case "mismatch":
		*o = Mismatch
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// Heuristic names the rule whose shift was applied.
type Heuristic int

const (
	BadCharacter Heuristic = iota
	GoodSuffix
)

func (h Heuristic) String() string {
	if h == GoodSuffix {
		return "Good Suffix"
	}
	return "Bad Character"
}

func (h Heuristic) MarshalText() ([]byte, error) {
	if h == GoodSuffix {
		return []byte("good_suffix"), nil
	}
	return []byte("bad_character"), nil
}

func (h *Heuristic) UnmarshalText(b []byte) error {
	switch string(b) {
	case "good_suffix":
		*h = GoodSuffix
	case "bad_character":
		*h = BadCharacter
	default:
		return fmt.Errorf("unknown heuristic %q", b)
	}
	return nil
}

// Event describes one alignment step of a scan. Steps count from 1. Events
// are values; a Sink may keep them without copying.
type Event struct {
	Step    int     `json:"step"`
	Offset  int     `json:"offset"`
	Outcome Outcome `json:"outcome"`

	// MismatchAt is the pattern index that failed to match, -1 on a full match.
	MismatchAt int `json:"mismatch_at"`

	// BadCharShift is zero on a full match, where only the good-suffix rule applies.
	BadCharShift    int       `json:"bad_char_shift"`
	GoodSuffixShift int       `json:"good_suffix_shift"`
	Shift           int       `json:"shift"`
	Heuristic       Heuristic `json:"heuristic"`
}

// Next is the offset of the following alignment.
func (e Event) Next() int {
	return e.Offset + e.Shift
}

func (e Event) Matched() bool {
	return e.Outcome == FullMatch
}

// Sink observes scan events in order. Observe is called synchronously from
// the scanning goroutine.
type Sink interface {
	Observe(Event)
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Observe(e Event) { f(e) }

// Tee fans each event out to every non-nil sink, in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Observe(e)
			}
		}
	})
}
