package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the document could not be parsed as JSON or YAML.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a $ref could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates an external $ref expands into itself.
	ErrCircularReference = errors.New("circular reference")

	// ErrTransport indicates a document could not be fetched.
	ErrTransport = errors.New("transport error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// message assembles "<head><qualifiers>: <message>: <cause>", skipping
// empty parts.
type message struct {
	b strings.Builder
}

func newMessage(head string) *message {
	m := &message{}
	m.b.WriteString(head)
	return m
}

func (m *message) qualify(format string, args ...any) *message {
	_, _ = fmt.Fprintf(&m.b, format, args...)
	return m
}

func (m *message) detail(s string) *message {
	if s != "" {
		m.b.WriteString(": ")
		m.b.WriteString(s)
	}
	return m
}

func (m *message) cause(err error) *message {
	if err != nil {
		m.detail(err.Error())
	}
	return m
}

func (m *message) String() string { return m.b.String() }

// ParseError reports a document that is not valid JSON or YAML.
type ParseError struct {
	// Path is the file path or URL of the document
	Path string
	// Line and Column locate the failure, 1-based (0 if unknown)
	Line   int
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the decoder error, if any
	Cause error
}

func (e *ParseError) Error() string {
	m := newMessage("parse error")
	if e.Path != "" {
		m.qualify(" in %s", e.Path)
	}
	if e.Line > 0 {
		m.qualify(" at line %d", e.Line)
		if e.Column > 0 {
			m.qualify(", column %d", e.Column)
		}
	}
	return m.detail(e.Message).cause(e.Cause).String()
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ReferenceError reports a $ref that could not be bundled.
type ReferenceError struct {
	// Ref is the $ref value as written in the document
	Ref string
	// RefType is "local", "file" or "http"
	RefType string
	// IsCircular is set when the reference expands into itself
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the fetch or lookup error, if any
	Cause error
}

func (e *ReferenceError) Error() string {
	head := "reference error"
	if e.IsCircular {
		head = "circular reference"
	}
	return newMessage(head).detail(e.Ref).detail(e.Message).cause(e.Cause).String()
}

func (e *ReferenceError) Unwrap() error { return e.Cause }

// Is matches ErrReference, and ErrCircularReference when IsCircular is set.
func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrCircularReference:
		return e.IsCircular
	}
	return false
}

// TransportError reports a document that could not be retrieved: a network
// failure, a non-200 response or an unreadable file. It is distinct from
// ParseError so callers can tell a connectivity problem from bad content.
type TransportError struct {
	// Location is the URL or file path that was requested
	Location string
	// StatusCode is the HTTP status (0 when no response was received)
	StatusCode int
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

func (e *TransportError) Error() string {
	m := newMessage("transport error")
	if e.Location != "" {
		m.qualify(" fetching %s", e.Location)
	}
	if e.StatusCode > 0 {
		m.qualify(" (HTTP %d)", e.StatusCode)
	}
	return m.detail(e.Message).cause(e.Cause).String()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ResourceLimitError reports a bundling run that exceeded a configured limit.
type ResourceLimitError struct {
	// ResourceType is "ref_depth", "cached_documents" or "file_size"
	ResourceType string
	// Limit is the configured maximum
	Limit int64
	// Actual is the offending value (0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

func (e *ResourceLimitError) Error() string {
	m := newMessage("resource limit exceeded").detail(e.ResourceType)
	switch {
	case e.Limit > 0 && e.Actual > 0:
		m.qualify(" (limit: %d, actual: %d)", e.Limit, e.Actual)
	case e.Limit > 0:
		m.qualify(" (limit: %d)", e.Limit)
	}
	return m.detail(e.Message).String()
}

// Is matches ErrResourceLimit.
func (e *ResourceLimitError) Is(target error) bool { return target == ErrResourceLimit }

// ConfigError reports an invalid option or option combination.
type ConfigError struct {
	// Option names the offending setting
	Option string
	// Value is the rejected value (may be nil)
	Value any
	// Message describes what is wrong
	Message string
	// Cause is the underlying error, if any
	Cause error
}

func (e *ConfigError) Error() string {
	m := newMessage("configuration error")
	if e.Option != "" {
		m.qualify(" for %s", e.Option)
	}
	if e.Value != nil {
		m.qualify(" (value: %v)", e.Value)
	}
	return m.detail(e.Message).cause(e.Cause).String()
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// Is matches ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
