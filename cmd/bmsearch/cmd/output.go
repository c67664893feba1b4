package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/app"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/domain/trace"
	"github.com/corey/bmsearch/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// paint wraps s in code when color is on.
func paint(s, code string, useColor bool) string {
	if !useColor {
		return s
	}
	return code + s + colorReset
}

// formatMatches renders one offset per line, prefixed with the source
// name when several sources are searched:
//
//	notes.txt:17
//	notes.txt:2048
func formatMatches(out *app.Outcome, withName, useColor bool) string {
	var sb strings.Builder
	for _, off := range out.Result.Matches {
		if withName {
			sb.WriteString(paint(out.Source, colorCyan, useColor))
			sb.WriteString(":")
		}
		sb.WriteString(paint(fmt.Sprint(off), colorGreen, useColor))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatCount renders the match count for a source.
func formatCount(out *app.Outcome, withName, useColor bool) string {
	n := len(out.Result.Matches)
	if withName {
		return fmt.Sprintf("%s:%d\n", paint(out.Source, colorCyan, useColor), n)
	}
	return fmt.Sprintf("%d\n", n)
}

// jsonOutcome is the --json form of one searched source.
type jsonOutcome struct {
	Source     string                `json:"source"`
	Alphabet   string                `json:"alphabet"`
	Matches    []int                 `json:"matches"`
	Count      int                   `json:"count"`
	Degenerate boyermoore.Degenerate `json:"degenerate"`
	Summary    *trace.Summary        `json:"summary"`
	Events     []boyermoore.Event    `json:"events,omitempty"`
	Verified   bool                  `json:"verified,omitempty"`
	RunID      uint64                `json:"run_id,omitempty"`
	ElapsedUs  int64                 `json:"elapsed_us"`
}

func toJSONOutcome(out *app.Outcome) jsonOutcome {
	matches := out.Result.Matches
	if matches == nil {
		matches = []int{}
	}
	return jsonOutcome{
		Source:     out.Source,
		Alphabet:   out.Alphabet,
		Matches:    matches,
		Count:      len(matches),
		Degenerate: out.Result.Degenerate,
		Summary:    out.Summary,
		Events:     out.Result.Events,
		Verified:   out.Verified,
		RunID:      out.RunID,
		ElapsedUs:  out.Elapsed.Microseconds(),
	}
}

// formatTables renders both shift tables of a pattern.
//
//	Pattern "ABAB" (length 4)
//
//	Bad character (rightmost index, absent = -1):
//	  'A'  0x41  2
//	  'B'  0x42  3
//
//	Good suffix:
//	  j      0  1  2  3  4
//	  shift  2  2  2  4  1
func formatTables(t *socket.TablesResult, useColor bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (length %d)\n\n",
		paint(fmt.Sprintf("Pattern %q", t.Pattern), colorBold, useColor), t.Length)

	sb.WriteString("Bad character (rightmost index, absent = -1):\n")
	for _, e := range t.BadCharacter {
		fmt.Fprintf(&sb, "  %-5s 0x%02x  %s\n", symbolLabel(e.Symbol), e.Symbol,
			paint(fmt.Sprint(e.Index), colorGreen, useColor))
	}

	width := 1
	for _, v := range t.GoodSuffix {
		if w := len(fmt.Sprint(v)); w > width {
			width = w
		}
	}
	if w := len(fmt.Sprint(len(t.GoodSuffix) - 1)); w > width {
		width = w
	}
	sb.WriteString("\nGood suffix:\n  j    ")
	for j := range t.GoodSuffix {
		fmt.Fprintf(&sb, " %*d", width, j)
	}
	sb.WriteString("\n  shift")
	for _, v := range t.GoodSuffix {
		fmt.Fprintf(&sb, " %s", paint(fmt.Sprintf("%*d", width, v), colorGreen, useColor))
	}
	sb.WriteString("\n")
	return sb.String()
}

// symbolLabel quotes printable ASCII and shows other bytes as a dot.
func symbolLabel(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return fmt.Sprintf("'%c'", b)
	}
	return "."
}

// formatRun renders one history entry:
//
//	#12  2026-10-19 09:30:00  "ABAB"  notes.txt  1 match  steps 2  skipped 3
func formatRun(r *ports.Run, useColor bool) string {
	var sb strings.Builder
	sb.WriteString(paint(fmt.Sprintf("#%d", r.ID), colorYellow, useColor))
	fmt.Fprintf(&sb, "  %s  %q  %s  ", r.Time.Local().Format(time.DateTime), r.Pattern,
		paint(r.Source, colorCyan, useColor))
	if r.Degenerate != "" {
		sb.WriteString(paint("("+r.Degenerate+")", colorMagenta, useColor))
	} else {
		sb.WriteString(plural(len(r.Matches), "match", "matches"))
	}
	fmt.Fprintf(&sb, "  steps %d  skipped %d", r.Steps, r.Skipped)
	if r.Alphabet != "" && r.Alphabet != boyermoore.Bytes.Name() {
		sb.WriteString(paint("  ["+r.Alphabet+"]", colorGray, useColor))
	}
	sb.WriteString("\n")
	return sb.String()
}

// formatWatchLine renders one watch report:
//
//	[2026-10-19T09:30:00Z] notes.txt: 2 matches [17 2048]
func formatWatchLine(now time.Time, out *app.Outcome, useColor bool) string {
	var detail string
	switch {
	case out.Result.Degenerate != boyermoore.NotDegenerate:
		detail = paint(out.Result.Err().Error(), colorMagenta, useColor)
	case out.Result.Found():
		detail = fmt.Sprintf("%s %v", plural(len(out.Result.Matches), "match", "matches"), out.Result.Matches)
	default:
		detail = "no match"
	}
	return fmt.Sprintf("[%s] %s: %s\n", now.Format(time.RFC3339), paint(out.Source, colorCyan, useColor), detail)
}

func formatHealth(h *socket.HealthResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ bmsearch daemon%s %s\n", colorBold, colorReset, h.Status)
	if h.ProjectRoot != "" {
		fmt.Fprintf(&sb, "  Root:       %s\n", h.ProjectRoot)
	}
	fmt.Fprintf(&sb, "  Uptime:     %s\n", h.Uptime)
	fmt.Fprintf(&sb, "  Requests:   %d\n", h.Requests)
	fmt.Fprintf(&sb, "  Searches:   %d\n", h.Searches)
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
