// Package cliutil holds terminal helpers shared by the apimfix command
// and the pipeline packages that print progress.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef formats to w. A failed write is reported on stderr and otherwise
// ignored; progress output never aborts a run.
func Writef(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		fmt.Fprintln(os.Stderr, "apimfix: output write failed:", err)
	}
}

// Linef is Writef with a trailing newline.
func Linef(w io.Writer, format string, args ...any) {
	Writef(w, format+"\n", args...)
}
