// Package severity provides the levels attached to issues reported while
// converting a document for the APIM importer.
//
// The levels are ordered from least to most severe: Info < Warning < Error.
package severity

// Severity indicates how much attention an issue needs.
type Severity int

const (
	// SeverityInfo records a change that was made as requested, such as the
	// version rewrite.
	SeverityInfo Severity = iota

	// SeverityWarning records a lossy change, such as a removed keyword.
	SeverityWarning

	// SeverityError records a construct that could not be converted.
	SeverityError
)

var labels = [...]struct{ name, symbol string }{
	SeverityInfo:    {"info", "ℹ"},
	SeverityWarning: {"warning", "⚠"},
	SeverityError:   {"error", "✗"},
}

func (s Severity) valid() bool { return s >= 0 && int(s) < len(labels) }

// String returns "info", "warning" or "error".
func (s Severity) String() string {
	if !s.valid() {
		return "unknown"
	}
	return labels[s].name
}

// Symbol returns the marker printed in front of an issue.
func (s Severity) Symbol() string {
	if !s.valid() {
		return "?"
	}
	return labels[s].symbol
}
