package trace

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/corey/bmsearch/internal/domain/boyermoore"
)

const (
	headerRule = "----------------------------------"
	stepRule   = "--------------------------------------------------------"
	footerRule = "================================================"
)

// Renderer writes a human-readable alignment trace as events arrive. Call
// Begin before the scan and End after it; Observe is the boyermoore.Sink.
// Write errors are remembered and returned from End.
type Renderer struct {
	w       io.Writer
	text    string
	pattern string
	summary *Summary
	err     error
}

// NewRenderer renders a scan of pattern over text to w.
func NewRenderer(w io.Writer, text, pattern []byte) *Renderer {
	return &Renderer{
		w:       w,
		text:    printable(text),
		pattern: printable(pattern),
		summary: NewSummary(len(text), len(pattern)),
	}
}

// Summary returns the counters accumulated so far.
func (r *Renderer) Summary() *Summary {
	return r.summary
}

func (r *Renderer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Begin writes the header.
func (r *Renderer) Begin() {
	r.printf("Text:    %s\n", r.text)
	r.printf("Pattern: %s\n", r.pattern)
	r.printf("%s\n", headerRule)
}

func (r *Renderer) Observe(ev boyermoore.Event) {
	r.summary.Observe(ev)

	r.printf("Step %d: Pattern aligned at index %d\n", ev.Step, ev.Offset)
	if ev.Matched() {
		r.printf("Pattern found at index: %d\n", ev.Offset)
		if r.summary.InRange(ev.Next()) {
			r.printf("- Shifting right by: %d      - Chosen Heuristic: %s\n", ev.Shift, ev.Heuristic)
		}
	} else {
		r.printf("- Bad character shift: %d      - Good suffix shift: %d      - Heuristic Chosen: %s      - Shifting right by: %d\n",
			ev.BadCharShift, ev.GoodSuffixShift, ev.Heuristic, ev.Shift)
	}

	if r.summary.InRange(ev.Next()) {
		r.printf("\nText:    %s\n", r.text)
		r.printf("Pattern: %s%s\n", strings.Repeat(" ", ev.Next()), r.pattern)
		r.printf("%s\n", stepRule)
	}
}

// End writes the footer for res and returns the first write error, if any.
func (r *Renderer) End(res *boyermoore.Result) error {
	if res.Degenerate != boyermoore.NotDegenerate {
		r.printf("Pattern is empty or longer than the text.\n")
		return r.err
	}
	if !res.Found() {
		r.printf("Pattern not found in the text.\n")
	}

	r.printf("\n%s\n", footerRule)
	// every index carries a trailing space
	var offsets strings.Builder
	for _, m := range res.Matches {
		offsets.WriteString(strconv.Itoa(m))
		offsets.WriteByte(' ')
	}
	r.printf("The pattern matched the text at index: %s\n", offsets.String())
	r.printf("Total Skipped Characters: %d\n", r.summary.Skipped)
	return r.err
}

// printable keeps column alignment for control and non-ASCII bytes by
// replacing each with a single '.'.
func printable(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c < 0x20 || c >= 0x7f {
			c = '.'
		}
		out[i] = c
	}
	return string(out)
}
