package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/domain/trace"
	"github.com/corey/bmsearch/internal/domain/verify"
	"github.com/corey/bmsearch/internal/ports"
)

// Source is one text to search.
type Source struct {
	Name string // file path, "-" for stdin, "<text>" for --text
	Text []byte
}

// Outcome is the result of searching one source.
type Outcome struct {
	Source   string
	Alphabet string
	Result   *boyermoore.Result
	Summary  *trace.Summary
	Verified bool
	RunID    uint64 // 0 when not recorded
	Elapsed  time.Duration
}

// ExitCode is the grep-style code for this outcome alone.
func (o *Outcome) ExitCode() int {
	return socket.ExitCodeFor(o.Result)
}

// Runner searches sources with a compiled matcher, optionally verifies the
// match set and records each completed search in history.
type Runner struct {
	ProjectID    string
	History      ports.History  // nil disables recording
	HistoryLimit int            // 0 keeps every run
	Verifier     ports.Verifier // nil disables verification
	KeepEvents   bool
	Log          io.Writer // warnings and debug lines

	debug bool
	now   func() time.Time
}

// NewRunner creates a runner that logs to stderr.
func NewRunner(projectID string, history ports.History, verifier ports.Verifier) *Runner {
	return &Runner{
		ProjectID:    projectID,
		History:      history,
		HistoryLimit: DefaultHistoryLimit,
		Verifier:     verifier,
		Log:          os.Stderr,
		debug:        os.Getenv("BMSEARCH_DEBUG") == "1",
		now:          time.Now,
	}
}

// Run scans src with m. extra sinks observe the scan's events as they
// happen. A verification failure returns the outcome together with an
// error wrapping *verify.Mismatch, and the run is not recorded.
func (r *Runner) Run(m *boyermoore.Matcher, src Source, extra ...boyermoore.Sink) (*Outcome, error) {
	start := time.Now()
	res, sum, err := trace.Scan(m, src.Text, r.KeepEvents, extra...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	out := &Outcome{
		Source:   src.Name,
		Alphabet: m.Alphabet().Name(),
		Result:   res,
		Summary:  sum,
	}

	if r.Verifier != nil && res.Degenerate == boyermoore.NotDegenerate {
		if err := verify.Check(r.Verifier, src.Text, m.Pattern(), res.Matches); err != nil {
			out.Elapsed = time.Since(start)
			return out, fmt.Errorf("%s: %w", src.Name, err)
		}
		out.Verified = true
	}
	out.Elapsed = time.Since(start)

	out.RunID = r.Record(m.Pattern(), out)
	if r.debug {
		fmt.Fprintf(r.Log, "[%s] [debug] run source=%s text_len=%d matches=%d steps=%d skipped=%d elapsed=%v\n",
			time.Now().Format(time.RFC3339), out.Source, sum.TextLen,
			len(res.Matches), res.Steps, sum.Skipped, out.Elapsed)
	}
	return out, nil
}

// Record saves out to history and prunes old runs. Storage failures are
// logged as warnings; the returned ID is 0 when nothing was saved.
func (r *Runner) Record(pattern []byte, out *Outcome) uint64 {
	if r.History == nil {
		return 0
	}
	run := &ports.Run{
		Time:     r.now(),
		Pattern:  string(pattern),
		Source:   out.Source,
		TextLen:  out.Summary.TextLen,
		Alphabet: out.Alphabet,
		Steps:    out.Result.Steps,
		Skipped:  out.Summary.Skipped,
		Matches:  out.Result.Matches,
	}
	if d := out.Result.Degenerate; d != boyermoore.NotDegenerate {
		run.Degenerate = d.String()
	}

	id, err := r.History.SaveRun(r.ProjectID, run)
	if err != nil {
		fmt.Fprintf(r.Log, "[warning] history not saved: %v\n", err)
		return 0
	}
	if r.HistoryLimit > 0 {
		if _, err := r.History.PruneRuns(r.ProjectID, r.HistoryLimit); err != nil {
			fmt.Fprintf(r.Log, "[warning] history prune: %v\n", err)
		}
	}
	return id
}

// OutcomeFromRemote converts a daemon search result into an Outcome so
// local and remote searches share one output path.
func OutcomeFromRemote(sr *socket.SearchResult) *Outcome {
	sum := sr.Summary
	elapsed, _ := time.ParseDuration(sr.Elapsed)
	return &Outcome{
		Source:   sr.Source,
		Alphabet: sr.Alphabet,
		Result: &boyermoore.Result{
			Matches:    sr.Matches,
			Events:     sr.Events,
			Steps:      sum.Steps,
			Degenerate: sr.Degenerate,
		},
		Summary:  &sum,
		Verified: sr.Verified,
		Elapsed:  elapsed,
	}
}
