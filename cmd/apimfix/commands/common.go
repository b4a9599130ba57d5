// Package commands provides CLI command handlers for apimfix.
package commands

import (
	"errors"
	"io"
	"log/slog"

	"github.com/erraggy/apimfix/internal/cliutil"
	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

// PipelineError marks a failure of the download or normalization steps, as
// opposed to a usage error.
type PipelineError struct {
	Err error
}

func (e *PipelineError) Error() string { return e.Err.Error() }

func (e *PipelineError) Unwrap() error { return e.Err }

// DescribeError returns the headline and the hint shown for a failed run.
// Transport and parse failures get their own wording; anything else is
// reported as unexpected.
func DescribeError(err error) (headline, hint string) {
	switch {
	case errors.Is(err, oaserrors.ErrTransport):
		return "Network error downloading spec: " + err.Error(), "Check your internet connection and try again."
	case errors.Is(err, oaserrors.ErrParse):
		return "Invalid JSON in downloaded spec: " + err.Error(), "The source specification may be malformed."
	default:
		return "Unexpected error: " + err.Error(), "Please report this issue with the full error details."
	}
}

// ReportError writes err to w. Pipeline failures get a categorized
// headline and hint, usage errors a plain "Error:" line.
func ReportError(w io.Writer, err error) {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		cliutil.Writef(w, "Error: %v\n", err)
		return
	}
	headline, hint := DescribeError(pe.Err)
	cliutil.Failf(w, "%s\n", headline)
	cliutil.Writef(w, "%s\n", hint)
}

// newLogger returns the debug logger for --verbose, or nil.
func newLogger(w io.Writer, verbose bool) parser.Logger {
	if !verbose {
		return nil
	}
	return parser.NewSlogAdapter(cliutil.NewHumanLogger(w, slog.LevelDebug))
}
