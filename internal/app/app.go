// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the bmsearch daemon (create, start,
// stop) and the shared search pipeline used by the CLI.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corey/bmsearch/internal/adapters/ahocorasick"
	"github.com/corey/bmsearch/internal/adapters/bbolt"
	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	ProjectRoot string
	ProjectID   string

	Paths    *Paths
	Settings *Settings
	Store    *bbolt.Store // nil when history is disabled
	Oracle   *ahocorasick.Oracle
	Runner   *Runner
	Server   *socket.Server

	mu      sync.Mutex // serializes daemon-side history writes
	started time.Time
	logOut  io.Writer // stdout, plus daemon.log while started
	logFile *os.File
}

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	ProjectID   string    // default: base name of ProjectRoot
	DBPath      string    // default: .bmsearch/bmsearch.db
	Settings    *Settings // nil = load .bmsearch/config.yaml
	NoHistory   bool      // skip opening the store
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	if cfg.ProjectID == "" {
		cfg.ProjectID = filepath.Base(cfg.ProjectRoot)
	}
	paths := NewPaths(cfg.ProjectRoot)
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}

	settings := cfg.Settings
	if settings == nil {
		var err error
		settings, err = LoadSettings(paths.Config)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	a := &App{
		ProjectRoot: cfg.ProjectRoot,
		ProjectID:   cfg.ProjectID,
		Paths:       paths,
		Settings:    settings,
		Oracle:      ahocorasick.NewOracle(),
		logOut:      os.Stdout,
	}

	var history ports.History
	if settings.History && !cfg.NoHistory {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		store, err := bbolt.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = store
		history = store
	}

	var verifier ports.Verifier
	if settings.Verify {
		verifier = a.Oracle
	}
	a.Runner = NewRunner(cfg.ProjectID, history, verifier)
	a.Runner.HistoryLimit = settings.HistoryLimit

	a.Server = socket.NewServer(socket.SocketPath(cfg.ProjectRoot), a.Oracle, a)
	return a, nil
}

// Compile builds a matcher over the configured alphabet.
func (a *App) Compile(pattern []byte) (*boyermoore.Matcher, error) {
	return boyermoore.Compile(pattern, boyermoore.WithAlphabet(a.Settings.Alphabet))
}

// Start begins the daemon: socket server plus PID file.
func (a *App) Start() error {
	if err := a.Paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create state dirs: %w", err)
	}
	// the log is set up before the server can serve RecordSearch
	if f, err := a.Paths.OpenDaemonLog(); err != nil {
		a.logf("[warning] daemon log not opened: %v", err)
	} else {
		a.logFile = f
		a.logOut = io.MultiWriter(os.Stdout, f)
	}
	if err := a.Server.Start(); err != nil {
		a.closeLog()
		return fmt.Errorf("start server: %w", err)
	}
	a.started = time.Now()

	if err := a.Paths.WritePID(os.Getpid()); err != nil {
		a.logf("[warning] pid file not written: %v", err)
	}
	a.logf("daemon listening on %s (project %s)", a.Server.Addr(), a.ProjectID)
	return nil
}

// Stop shuts down the server and closes the store. Safe to call on an App
// that was never started.
func (a *App) Stop() error {
	if !a.started.IsZero() {
		a.Server.Stop()
		a.Paths.CleanEphemeral()
		a.logf("daemon stopped after %s", time.Since(a.started).Round(time.Second))
		a.started = time.Time{}
	}
	a.closeLog()
	return a.Close()
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
		a.logOut = os.Stdout
	}
}

// Close releases the store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}

// Root returns the project root.
// Implements socket.AppQueries.
func (a *App) Root() string {
	return a.ProjectRoot
}

// RecordSearch stores a daemon-served search in history.
// Implements socket.AppQueries.
func (a *App) RecordSearch(params socket.SearchParams, result *socket.SearchResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.Runner.Record(params.Pattern, OutcomeFromRemote(result))
	a.logf("search %q in %s: %d matches, %d steps (run #%d)",
		params.Pattern, result.Source, result.Count, result.Summary.Steps, id)
}

// ClearHistory removes every recorded run for this project.
func (a *App) ClearHistory() error {
	if a.Store == nil {
		return fmt.Errorf("history is disabled")
	}
	return a.Store.DeleteProject(a.ProjectID)
}

// RecentRuns returns up to limit runs, newest first.
func (a *App) RecentRuns(limit int) ([]*ports.Run, error) {
	if a.Store == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	return a.Store.ListRuns(a.ProjectID, limit)
}

// logf prints a timestamped operational message to stdout and, while the
// daemon runs, appends it to daemon.log.
func (a *App) logf(format string, args ...interface{}) {
	fmt.Fprintf(a.logOut, "[%s] %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
