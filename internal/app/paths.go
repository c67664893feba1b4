package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DirName is the per-project state directory.
const DirName = ".bmsearch"

// Paths holds all resolved filesystem paths for the .bmsearch/ project directory.
type Paths struct {
	Root   string // .bmsearch/
	DB     string // .bmsearch/bmsearch.db
	Config string // .bmsearch/config.yaml

	LogDir    string // .bmsearch/log/
	DaemonLog string // .bmsearch/log/daemon.log

	RunDir  string // .bmsearch/run/
	PIDFile string // .bmsearch/run/daemon.pid
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "bmsearch.db"),
		Config: filepath.Join(root, "config.yaml"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),
	}
}

// EnsureDirs creates all subdirectories under .bmsearch/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// WritePID records the daemon's process ID.
func (p *Paths) WritePID(pid int) error {
	return os.WriteFile(p.PIDFile, []byte(fmt.Sprintf("%d\n", pid)), 0644)
}

// ReadPID returns the recorded daemon PID, or 0 when none is recorded.
func (p *Paths) ReadPID() int {
	data, err := os.ReadFile(p.PIDFile)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// OpenDaemonLog opens daemon.log for appending, creating it if needed.
func (p *Paths) OpenDaemonLog() (*os.File, error) {
	return os.OpenFile(p.DaemonLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// CleanEphemeral removes ephemeral runtime files.
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}
