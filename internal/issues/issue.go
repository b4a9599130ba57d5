// Package issues provides the issue type reported by the converter.
package issues

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/erraggy/apimfix/internal/severity"
)

// Issue represents a single change or problem found during conversion.
type Issue struct {
	// Path is the dot/bracket path of the affected node (e.g., "components.schemas.Foo.properties")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field is the specific field name that has the issue
	Field string
	// Value is the affected value (optional)
	Value any
	// Context provides additional information about the issue (optional)
	Context string
}

// String renders the issue as "<symbol> <path>: <message>", with the
// context on an indented second line when present.
func (i Issue) String() string {
	var b strings.Builder
	path := cmp.Or(i.Path, "(root)")
	fmt.Fprintf(&b, "%s %s: %s", i.Severity.Symbol(), path, i.Message)
	if i.Context != "" {
		fmt.Fprintf(&b, "\n    Context: %s", i.Context)
	}
	return b.String()
}

// Count tallies list by severity.
func Count(list []Issue) (info, warning, errs int) {
	var n [3]int
	for _, issue := range list {
		if issue.Severity >= 0 && int(issue.Severity) < len(n) {
			n[issue.Severity]++
		}
	}
	return n[severity.SeverityInfo], n[severity.SeverityWarning], n[severity.SeverityError]
}
