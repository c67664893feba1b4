package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock checks the daemon state and returns actionable guidance
// when a bbolt open fails due to lock contention. It distinguishes three
// scenarios: daemon running, stale socket, and unknown lock holder.
func diagnoseDBLock(root string) string {
	sockPath := socket.SocketPath(root)
	client := socket.NewClient(sockPath)

	if client.Ping() {
		return "history database is locked by the running daemon\n" +
			"  → search through it:  bmsearch search --remote ...\n" +
			"  → or stop it first:   bmsearch daemon stop"
	}

	if _, err := os.Stat(sockPath); err == nil {
		return fmt.Sprintf("history database is locked; daemon socket exists but is not responding\n"+
			"  → a previous daemon may have crashed\n"+
			"  → find the process:  ps aux | grep 'bmsearch daemon'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up socket:   rm %s", sockPath)
	}

	return "history database is locked by another process\n" +
		"  → find the process:  ps aux | grep 'bmsearch'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}

// openApp wires an App for a one-shot command, turning a lock timeout into
// guidance.
func openApp(cfg app.Config) (*app.App, error) {
	a, err := app.New(cfg)
	if isDBLockError(err) {
		return nil, fmt.Errorf("%s", diagnoseDBLock(cfg.ProjectRoot))
	}
	return a, err
}

// openSearchApp is openApp for commands whose history write is optional:
// a locked database downgrades to searching without history.
func openSearchApp(cfg app.Config) (*app.App, error) {
	a, err := app.New(cfg)
	if isDBLockError(err) {
		fmt.Fprintf(os.Stderr, "[warning] history disabled: %s\n", strings.SplitN(diagnoseDBLock(cfg.ProjectRoot), "\n", 2)[0])
		cfg.NoHistory = true
		return app.New(cfg)
	}
	return a, err
}

// loadSettings reads the project's config.yaml.
func loadSettings(root string) (*app.Settings, error) {
	return app.LoadSettings(app.NewPaths(root).Config)
}
