// Package trace consumes boyermoore scan events: it records them, folds them
// into a summary, or renders them as a step-by-step alignment trace.
package trace

import "github.com/corey/bmsearch/internal/domain/boyermoore"

// Recorder keeps every event it observes.
type Recorder struct {
	Events []boyermoore.Event
}

func (r *Recorder) Observe(ev boyermoore.Event) {
	r.Events = append(r.Events, ev)
}

// Offsets returns the alignment offsets in observation order.
func (r *Recorder) Offsets() []int {
	out := make([]int, len(r.Events))
	for i, ev := range r.Events {
		out[i] = ev.Offset
	}
	return out
}

// Summary folds a scan into counters. Skipped counts the text positions a
// shift jumped over without aligning there, and only while the next
// alignment is still inside the text.
type Summary struct {
	TextLen    int `json:"text_len"`
	PatternLen int `json:"pattern_len"`

	Steps            int `json:"steps"`
	Matches          int `json:"matches"`
	Skipped          int `json:"skipped"`
	BadCharacterWins int `json:"bad_character_wins"`
	GoodSuffixWins   int `json:"good_suffix_wins"`
}

// NewSummary starts a summary for a scan of a text of length textLen.
func NewSummary(textLen, patternLen int) *Summary {
	return &Summary{TextLen: textLen, PatternLen: patternLen}
}

// lastOffset is the greatest valid alignment.
func (s *Summary) lastOffset() int {
	return s.TextLen - s.PatternLen
}

// InRange reports whether offset is a valid alignment.
func (s *Summary) InRange(offset int) bool {
	return offset >= 0 && offset <= s.lastOffset()
}

func (s *Summary) Observe(ev boyermoore.Event) {
	s.Steps++
	if ev.Matched() {
		s.Matches++
	}
	switch ev.Heuristic {
	case boyermoore.GoodSuffix:
		s.GoodSuffixWins++
	default:
		s.BadCharacterWins++
	}
	if ev.Shift > 1 && s.InRange(ev.Next()) {
		s.Skipped += ev.Shift - 1
	}
}

// Scan runs m over text while folding a Summary. When keep is set the
// events are also stored on the result. extra sinks see the same events.
func Scan(m *boyermoore.Matcher, text []byte, keep bool, extra ...boyermoore.Sink) (*boyermoore.Result, *Summary, error) {
	sum := NewSummary(len(text), m.Len())
	sinks := append([]boyermoore.Sink{sum}, extra...)
	var rec *Recorder
	if keep {
		rec = &Recorder{}
		sinks = append(sinks, rec)
	}
	res, err := m.Scan(text, boyermoore.Tee(sinks...))
	if err != nil {
		return nil, nil, err
	}
	if rec != nil {
		res.Events = rec.Events
	}
	return res, sum, nil
}
