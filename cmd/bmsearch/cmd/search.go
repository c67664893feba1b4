package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/app"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/domain/trace"
	"github.com/spf13/cobra"
)

var (
	searchText      string
	searchCountOnly bool
	searchQuiet     bool
	searchJSON      bool
	searchTrace     bool
	searchVerify    bool
	searchAlphabet  string
	searchNoHistory bool
	searchColor     string
	searchRemote    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <pattern> [file ...]",
	Short: "Find every occurrence of a pattern",
	Long: "Searches each file, --text, or piped stdin for every (overlapping) occurrence of pattern.\n" +
		"Exit status: 0 if a match was found, 1 if none, 2 on error or degenerate input.",
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchText, "text", "", "Search this string instead of files or stdin")
	f.BoolVarP(&searchCountOnly, "count", "c", false, "Print match counts only")
	f.BoolVarP(&searchQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
	f.BoolVar(&searchJSON, "json", false, "Print results as JSON")
	f.BoolVar(&searchTrace, "trace", false, "Print every alignment step")
	f.BoolVar(&searchVerify, "verify", false, "Cross-check matches with an Aho-Corasick scan")
	f.StringVar(&searchAlphabet, "alphabet", "", "Restrict input to an alphabet: bytes, ascii, dna")
	f.BoolVar(&searchNoHistory, "no-history", false, "Do not record this search")
	f.StringVar(&searchColor, "color", "", "Color output: auto, always, never")
	f.BoolVar(&searchRemote, "remote", false, "Search through the running daemon")
}

// searchRequest is everything runSearch needs after flag parsing.
type searchRequest struct {
	pattern []byte
	files   []string
	text    *string
	stdin   bool
}

// parseSearchArgs separates the pattern from file arguments and picks the
// input: --text, files, or stdin. Files and --text are exclusive.
func parseSearchArgs(args []string, text *string, stdinPipe bool) (*searchRequest, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no pattern provided")
	}
	req := &searchRequest{pattern: []byte(args[0]), files: args[1:], text: text}
	switch {
	case text != nil && len(req.files) > 0:
		return nil, fmt.Errorf("--text cannot be combined with file arguments")
	case text != nil, len(req.files) > 0:
	case stdinPipe:
		req.stdin = true
	default:
		return nil, fmt.Errorf("no input: give files, --text, or pipe to stdin")
	}
	return req, nil
}

// applySearchFlags overrides config-file settings with explicitly set flags.
func applySearchFlags(cmd *cobra.Command, s *app.Settings) error {
	f := cmd.Flags()
	if f.Changed("alphabet") {
		a, err := boyermoore.AlphabetByName(searchAlphabet)
		if err != nil {
			return err
		}
		s.Alphabet = a
	}
	if f.Changed("verify") {
		s.Verify = searchVerify
	}
	if f.Changed("trace") {
		s.Trace = searchTrace
	}
	if f.Changed("color") {
		if err := app.ValidateColor(searchColor); err != nil {
			return err
		}
		s.Color = searchColor
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	var text *string
	if cmd.Flags().Changed("text") {
		text = &searchText
	}
	req, err := parseSearchArgs(args, text, isStdinPipe())
	if err != nil {
		fmt.Fprintf(os.Stderr, "bmsearch: %v\n", err)
		return exitError{2}
	}

	root := projectRoot()
	settings, err := loadSettings(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bmsearch: %v\n", err)
		return exitError{2}
	}
	if err := applySearchFlags(cmd, settings); err != nil {
		fmt.Fprintf(os.Stderr, "bmsearch: %v\n", err)
		return exitError{2}
	}

	a, err := openSearchApp(app.Config{
		ProjectRoot: root,
		Settings:    settings,
		NoHistory:   searchNoHistory || searchRemote,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bmsearch: %v\n", err)
		return exitError{2}
	}
	defer a.Close()

	s := &searchSession{
		app:      a,
		settings: settings,
		pattern:  req.pattern,
		out:      os.Stdout,
		errOut:   os.Stderr,
		useColor: resolveColor(settings.Color),
		withName: len(req.files) > 1,
		quiet:    searchQuiet,
		json:     searchJSON,
		count:    searchCountOnly,
	}
	if searchRemote {
		s.client = socket.NewClient(socket.SocketPath(root))
		if !s.client.Ping() {
			fmt.Fprintln(os.Stderr, "bmsearch: daemon is not running (start it with: bmsearch daemon start)")
			return exitError{2}
		}
	} else {
		m, err := a.Compile(req.pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bmsearch: %v\n", err)
			return exitError{2}
		}
		s.matcher = m
		a.Runner.KeepEvents = searchJSON && settings.Trace
	}

	switch {
	case req.text != nil:
		s.search(app.Source{Name: "<text>", Text: []byte(*req.text)}, "")
	case req.stdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			s.fail(fmt.Errorf("read stdin: %w", err))
		} else {
			s.search(app.Source{Name: "-", Text: data}, "")
		}
	default:
		for _, path := range req.files {
			s.searchFile(path)
		}
	}
	return s.finish()
}

// searchSession searches a sequence of sources and folds their exit codes.
type searchSession struct {
	app      *app.App
	settings *app.Settings
	matcher  *boyermoore.Matcher
	client   *socket.Client
	pattern  []byte
	out      io.Writer
	errOut   io.Writer
	useColor bool
	withName bool
	quiet    bool
	json     bool
	count    bool

	results []jsonOutcome
	matched bool
	failed  bool
}

func (s *searchSession) fail(err error) {
	s.failed = true
	if !s.quiet {
		fmt.Fprintf(s.errOut, "bmsearch: %v\n", err)
	}
}

func (s *searchSession) searchFile(path string) {
	if s.client != nil {
		// the daemon reads the file itself
		abs, err := filepath.Abs(path)
		if err != nil {
			s.fail(err)
			return
		}
		s.search(app.Source{Name: path}, abs)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.fail(err)
		return
	}
	s.search(app.Source{Name: path, Text: data}, "")
}

// search runs one source locally, or remotely when a client is set, and
// prints its output. remotePath, when set, is read by the daemon.
func (s *searchSession) search(src app.Source, remotePath string) {
	renderTrace := s.settings.Trace && !s.json && !s.quiet
	var renderer *trace.Renderer

	var out *app.Outcome
	var err error
	if s.client != nil {
		// the trace is drawn against the text, so a file is read here too
		text := src.Text
		if renderTrace && remotePath != "" {
			if text, err = os.ReadFile(remotePath); err != nil {
				s.fail(err)
				return
			}
		}
		out, err = s.searchRemote(src, remotePath)
		if err == nil && renderTrace {
			renderer = trace.NewRenderer(s.out, text, s.pattern)
			renderer.Begin()
			for _, ev := range out.Result.Events {
				renderer.Observe(ev)
			}
		}
	} else if renderTrace {
		renderer = trace.NewRenderer(s.out, src.Text, s.pattern)
		renderer.Begin()
		out, err = s.app.Runner.Run(s.matcher, src, renderer)
	} else {
		out, err = s.app.Runner.Run(s.matcher, src)
	}
	if err != nil {
		s.fail(err)
		return
	}

	if out.Result.Found() {
		s.matched = true
	}
	if d := out.Result.Degenerate; d != boyermoore.NotDegenerate {
		s.fail(fmt.Errorf("%s: %w", out.Source, d.Err()))
	}

	switch {
	case renderer != nil:
		if err := renderer.End(out.Result); err != nil {
			s.fail(err)
		}
	case s.quiet:
	case s.json:
		s.results = append(s.results, toJSONOutcome(out))
	case s.count:
		fmt.Fprint(s.out, formatCount(out, s.withName, s.useColor))
	default:
		fmt.Fprint(s.out, formatMatches(out, s.withName, s.useColor))
	}
}

func (s *searchSession) searchRemote(src app.Source, remotePath string) (*app.Outcome, error) {
	params := socket.SearchParams{
		Pattern:  s.pattern,
		Alphabet: s.settings.Alphabet.Name(),
		Events:   s.settings.Trace,
		Verify:   s.settings.Verify,
	}
	if remotePath != "" {
		params.Path = remotePath
	} else {
		params.Text = src.Text
	}
	result, err := s.client.Search(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	out := app.OutcomeFromRemote(result)
	out.Source = src.Name
	return out, nil
}

// finish prints collected JSON and returns the grep-style exit status:
// 2 if anything failed (unless -q found a match), else 0 on a match, else 1.
func (s *searchSession) finish() error {
	if s.json {
		if s.results == nil {
			s.results = []jsonOutcome{}
		}
		data, err := json.MarshalIndent(s.results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, string(data))
	}
	switch {
	case s.quiet && s.matched:
		return nil
	case s.failed:
		return exitError{2}
	case s.matched:
		return nil
	default:
		return exitError{1}
	}
}
