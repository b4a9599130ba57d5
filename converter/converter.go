package converter

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/cliutil"
	"github.com/erraggy/apimfix/internal/issues"
	"github.com/erraggy/apimfix/internal/severity"
	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

// Severity indicates the severity level of a conversion issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about conversion choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates lossy conversions such as removed keywords
	SeverityWarning = severity.SeverityWarning
)

// ConversionIssue represents a single conversion issue or limitation
type ConversionIssue = issues.Issue

// DefaultTargetVersion is the version written to the openapi field when
// downgrading.
const DefaultTargetVersion = "3.0.1"

// DefaultUnsupportedKeywords are the JSON Schema 2020-12 keywords that the
// OpenAPI 3.0 dialect does not know.
var DefaultUnsupportedKeywords = []string{"$recursiveAnchor", "$recursiveRef", "propertyNames"}

// ConversionResult contains the results of converting a document tree
type ConversionResult struct {
	// Root is the converted document tree
	Root *yaml.Node
	// SourceVersion is the openapi field value before conversion
	SourceVersion string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// TargetVersion is the openapi field value after conversion
	TargetVersion string
	// VersionChanged is true if the openapi field was rewritten
	VersionChanged bool
	// RemovedKeywords is the total number of keywords removed
	RemovedKeywords int
	// Issues contains all conversion issues in document order
	Issues []ConversionIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// Success is true if conversion completed
	Success bool
}

// HasWarnings returns true if there are any warnings
func (r *ConversionResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// Converter rewrites a document from the OpenAPI 3.1 dialect to the 3.0
// dialect the APIM importer expects.
type Converter struct {
	// DowngradeVersion sets the top-level openapi field to TargetVersion.
	// When false the field is left exactly as it is.
	DowngradeVersion bool
	// TargetVersion is the version written when DowngradeVersion is set.
	// Empty means DefaultTargetVersion.
	TargetVersion string
	// UnsupportedKeywords are removed from every mapping in the tree.
	// Nil means DefaultUnsupportedKeywords.
	UnsupportedKeywords []string
	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool
	// UserAgent is the User-Agent string used when fetching URLs
	UserAgent string
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled.
	Logger parser.Logger
	// Out receives one progress line per mapping with removed keywords.
	// If nil, nothing is written.
	Out io.Writer
	// MutableInput converts the parse result's tree in place instead of a copy.
	MutableInput bool
}

// New creates a new Converter instance with default settings
func New() *Converter {
	return &Converter{
		DowngradeVersion: true,
		TargetVersion:    DefaultTargetVersion,
		IncludeInfo:      true,
	}
}

// Convert parses the document at specPath (local file or URL) and converts it.
func (c *Converter) Convert(specPath string) (*ConversionResult, error) {
	p := parser.New()
	if c.UserAgent != "" {
		p.UserAgent = c.UserAgent
	}
	p.Logger = c.Logger

	parseResult, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("converter: failed to parse specification: %w", err)
	}
	return c.convert(*parseResult, true)
}

// ConvertParsed converts an already-parsed document.
func (c *Converter) ConvertParsed(parseResult parser.ParseResult) (*ConversionResult, error) {
	return c.convert(parseResult, c.MutableInput)
}

func (c *Converter) convert(parseResult parser.ParseResult, mutable bool) (*ConversionResult, error) {
	if parseResult.Root == nil {
		return nil, &oaserrors.ConfigError{Option: "parse result", Message: "document tree is nil"}
	}

	root := parseResult.Root
	if !mutable {
		root = parser.DeepCopy(root)
	}

	result := &ConversionResult{
		Root:          root,
		SourceVersion: parseResult.Version,
		SourceFormat:  parseResult.SourceFormat,
		TargetVersion: parseResult.Version,
		Issues:        make([]ConversionIssue, 0),
	}

	if c.DowngradeVersion {
		c.rewriteVersion(root, result)
	}
	c.stripUnsupported(root, result)

	result.Success = true
	c.log().Debug("conversion complete",
		"versionChanged", result.VersionChanged,
		"removedKeywords", result.RemovedKeywords)
	return result, nil
}

func (c *Converter) targetVersion() string {
	if c.TargetVersion != "" {
		return c.TargetVersion
	}
	return DefaultTargetVersion
}

func (c *Converter) unsupportedKeywords() []string {
	if c.UnsupportedKeywords != nil {
		return c.UnsupportedKeywords
	}
	return DefaultUnsupportedKeywords
}

// addIssue appends an issue and updates the counters. Info issues are
// dropped unless IncludeInfo is set.
func (c *Converter) addIssue(result *ConversionResult, issue ConversionIssue) {
	if issue.Severity == SeverityInfo && !c.IncludeInfo {
		return
	}
	result.Issues = append(result.Issues, issue)
	switch issue.Severity {
	case SeverityInfo:
		result.InfoCount++
	case SeverityWarning:
		result.WarningCount++
	}
}

func (c *Converter) log() parser.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return parser.NopLogger{}
}

func (c *Converter) progress(format string, args ...any) {
	if c.Out == nil {
		return
	}
	cliutil.Linef(c.Out, format, args...)
}
