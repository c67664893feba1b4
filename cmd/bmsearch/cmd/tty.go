package cmd

import "os"

// isTerminal reports whether f is a character device. Pipes, regular files
// and closed descriptors are not.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// isStdinPipe reports whether input is being piped or redirected in, which
// makes stdin the search source when no file or --text is given.
func isStdinPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

// colorFor applies a --color mode to a known terminal state. Anything but
// "always" or "never" follows the terminal.
func colorFor(mode string, tty bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return tty
}

// resolveColor decides colored output for stdout.
func resolveColor(mode string) bool {
	return colorFor(mode, isTerminal(os.Stdout))
}
