package app

import (
	"fmt"
	"os"

	fsw "github.com/corey/bmsearch/internal/adapters/fsnotify"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/ports"
)

// Watch searches each path once, then again whenever it changes. Every
// search, initial or triggered, is passed to report, which may be called
// from the watcher's goroutines. The caller stops the returned watcher.
func (a *App) Watch(m *boyermoore.Matcher, paths []string, report func(*Outcome, error)) (ports.Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	w, err := fsw.NewWatcher(a.Settings.Debounce)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	onFileChanged := func(path string) {
		report(a.searchFile(m, path))
	}
	if err := w.Watch(paths, onFileChanged); err != nil {
		w.Stop()
		return nil, err
	}
	for _, p := range paths {
		report(a.searchFile(m, p))
	}
	return w, nil
}

// searchFile reads the whole file and runs one search over it. A file
// removed between the event and the read is reported as an error.
func (a *App) searchFile(m *boyermoore.Matcher, path string) (*Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a.Runner.Run(m, Source{Name: path, Text: data})
}
