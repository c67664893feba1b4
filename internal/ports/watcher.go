package ports

// Watcher monitors a fixed set of files and triggers a re-search when one
// changes. Editors often replace a file on save (rename + create), so the
// adapter watches parent directories and filters events down to the given
// paths. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring paths. onChange is called with the absolute
	// path of each changed file, debounced per file. The callback may be
	// invoked from any goroutine. Returns an error if a path does not exist.
	Watch(paths []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
