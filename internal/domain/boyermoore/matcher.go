// Package boyermoore finds every occurrence of a byte pattern in a text with
// the Boyer-Moore algorithm, combining the bad-character and good-suffix rules.
//
// The package does no output of its own. Each alignment step is reported to an
// optional Sink as an Event, so tracing, logging and tests can all watch the
// same scan.
package boyermoore

// Option configures a Matcher.
type Option func(*Matcher)

// WithAlphabet restricts pattern and text to a closed alphabet. Violations are
// reported as *SymbolError before any comparison is made.
func WithAlphabet(a *Alphabet) Option {
	return func(m *Matcher) {
		if a != nil {
			m.alphabet = a
		}
	}
}

// Matcher is a compiled pattern: the pattern bytes plus both shift tables.
// It is immutable after Compile and safe for concurrent use.
type Matcher struct {
	pattern    []byte
	badChar    *BadCharTable
	goodSuffix []int
	alphabet   *Alphabet
}

// Result is the outcome of one scan.
type Result struct {
	Matches    []int      `json:"matches"` // ascending text offsets
	Events     []Event    `json:"events,omitempty"`
	Steps      int        `json:"steps"`
	Degenerate Degenerate `json:"degenerate"`
}

// Err returns ErrEmptyPattern or ErrPatternTooLong for a degenerate result.
func (r *Result) Err() error {
	return r.Degenerate.Err()
}

// Found reports whether at least one match was recorded.
func (r *Result) Found() bool {
	return len(r.Matches) > 0
}

// Compile copies pattern and builds its tables.
func Compile(pattern []byte, opts ...Option) (*Matcher, error) {
	m := &Matcher{alphabet: Bytes}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.alphabet.validate(pattern, "pattern"); err != nil {
		return nil, err
	}
	m.pattern = append([]byte(nil), pattern...)
	m.badChar = BuildBadCharTable(m.pattern)
	m.goodSuffix = BuildGoodSuffixTable(m.pattern)
	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern []byte, opts ...Option) *Matcher {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matcher) Pattern() []byte { return append([]byte(nil), m.pattern...) }

func (m *Matcher) Len() int { return len(m.pattern) }

func (m *Matcher) Alphabet() *Alphabet { return m.alphabet }

func (m *Matcher) BadChar() *BadCharTable { return m.badChar }

// GoodSuffix returns a copy of the good-suffix shift table.
func (m *Matcher) GoodSuffix() []int {
	return append([]int(nil), m.goodSuffix...)
}

// Scan finds every occurrence of the pattern in text, reporting each
// alignment to sink (which may be nil). Events are not kept on the result.
//
// An empty pattern, or one longer than text, is not scanned: the result
// carries the Degenerate reason and no matches, and the error is nil.
func (m *Matcher) Scan(text []byte, sink Sink) (*Result, error) {
	n, plen := len(text), len(m.pattern)
	res := &Result{}
	switch {
	case plen == 0:
		res.Degenerate = EmptyPattern
		return res, nil
	case n < plen:
		res.Degenerate = PatternTooLong
		return res, nil
	}
	if err := m.alphabet.validate(text, "text"); err != nil {
		return nil, err
	}

	last := n - plen
	for s := 0; s <= last; {
		res.Steps++
		j := plen - 1
		for j >= 0 && m.pattern[j] == text[s+j] {
			j--
		}

		ev := Event{Step: res.Steps, Offset: s, MismatchAt: j}
		if j < 0 {
			res.Matches = append(res.Matches, s)
			ev.Outcome = FullMatch
			ev.GoodSuffixShift = m.goodSuffix[0]
			ev.Shift = ev.GoodSuffixShift
			ev.Heuristic = GoodSuffix
		} else {
			ev.BadCharShift = m.badChar.Shift(j, text[s+j])
			ev.GoodSuffixShift = m.goodSuffix[j+1]
			// ties credit the bad-character rule
			ev.Shift, ev.Heuristic = ev.BadCharShift, BadCharacter
			if ev.GoodSuffixShift > ev.BadCharShift {
				ev.Shift, ev.Heuristic = ev.GoodSuffixShift, GoodSuffix
			}
		}

		if sink != nil {
			sink.Observe(ev)
		}
		s += ev.Shift
	}
	return res, nil
}

// Search compiles pattern over the full byte alphabet, scans text, and keeps
// every event on the result.
func Search(text, pattern []byte) (*Result, error) {
	m, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	var events []Event
	res, err := m.Scan(text, SinkFunc(func(e Event) {
		events = append(events, e)
	}))
	if err != nil {
		return nil, err
	}
	res.Events = events
	return res, nil
}

// SearchString is Search for string arguments.
func SearchString(text, pattern string) (*Result, error) {
	return Search([]byte(text), []byte(pattern))
}
