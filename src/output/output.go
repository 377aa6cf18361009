// Package output renders niksi's terminal output: framed sections for each
// build phase, a closing summary and the console logger.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/niksi-aalto/niksi/src/version"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func colorize(text, code string, color bool) string {
	if !color {
		return text
	}
	return code + text + colorReset
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stdout) || IsCI()
}

// Header prints the one-line identity header shown before a build.
func Header(w io.Writer, color bool) {
	name := colorize("niksi", colorBold+colorCyan, color)
	fmt.Fprintf(w, "\n    %s %s\n", name, Dimmed(version.Version+" ("+version.Commit+")", color))
}
