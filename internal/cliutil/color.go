package cliutil

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed, color.Bold)
)

// isTerminalFd is replaced in tests.
var isTerminalFd = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ConfigureColor applies the environment's color preferences. NO_COLOR or
// TERM=dumb turn colored output off for every stream; otherwise each writer
// is colored only when it is a terminal itself.
func ConfigureColor() {
	color.NoColor = os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"
}

// ColorEnabled reports whether status lines written to w are colored.
func ColorEnabled(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isTerminalFd(f.Fd())
}

// Successf writes a green status line.
func Successf(w io.Writer, format string, args ...any) {
	writeColored(w, successColor, format, args...)
}

// Warnf writes a yellow status line.
func Warnf(w io.Writer, format string, args ...any) {
	writeColored(w, warningColor, format, args...)
}

// Failf writes a red status line.
func Failf(w io.Writer, format string, args ...any) {
	writeColored(w, failureColor, format, args...)
}

func writeColored(w io.Writer, c *color.Color, format string, args ...any) {
	if !ColorEnabled(w) {
		Writef(w, format, args...)
		return
	}
	Writef(w, "%s", c.Sprintf(format, args...))
}
