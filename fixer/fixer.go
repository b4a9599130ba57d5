package fixer

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/cliutil"
	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

// FixType identifies the type of fix applied
type FixType string

const (
	// FixTypeDiscriminatorRequired indicates a discriminator property was added
	// to the required list of a oneOf/anyOf/allOf alternative
	FixTypeDiscriminatorRequired FixType = "discriminator-required"
	// FixTypeDescriptionObject indicates an object-valued description was
	// replaced by its JSON text
	FixTypeDescriptionObject FixType = "description-object"
)

// AllFixTypes lists every fix in the order the pipeline applies them.
var AllFixTypes = []FixType{FixTypeDiscriminatorRequired, FixTypeDescriptionObject}

// IsFixType reports whether t names a known fix.
func IsFixType(t FixType) bool {
	for _, ft := range AllFixTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// Fix represents a single fix applied to the document
type Fix struct {
	// Type identifies the category of fix
	Type FixType
	// Path is the path to the fixed location (e.g., "components.schemas.Pet.oneOf[0]")
	Path string
	// Description is a human-readable description of the fix
	Description string
	// Before is the state before the fix (nil if adding new element)
	Before any
	// After is the value that was added or changed
	After any
}

// FixResult contains the results of a fix operation
type FixResult struct {
	// Root is the fixed document tree
	Root *yaml.Node
	// SourceVersion is the detected source OAS version string
	SourceVersion string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// SourcePath is the path to the source file
	SourcePath string
	// Fixes contains all fixes applied
	Fixes []Fix
	// FixCount is the total number of fixes applied
	FixCount int
	// Success is true if fixing completed without errors
	Success bool
	// Stats contains statistical information about the document
	Stats parser.DocumentStats
}

// HasFixes returns true if any fixes were applied
func (r *FixResult) HasFixes() bool {
	return r.FixCount > 0
}

// CountByType returns how many fixes of the given type were applied.
func (r *FixResult) CountByType(fixType FixType) int {
	n := 0
	for _, fix := range r.Fixes {
		if fix.Type == fixType {
			n++
		}
	}
	return n
}

// Fixer repairs schema constructs that the APIM importer rejects.
type Fixer struct {
	// EnabledFixes specifies which fix types to apply.
	// If nil or empty, all fix types are enabled.
	EnabledFixes []FixType
	// UserAgent is the User-Agent string used when fetching URLs.
	UserAgent string
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled.
	Logger parser.Logger
	// Out receives one progress line per repaired construct.
	// If nil, nothing is written.
	Out io.Writer
	// MutableInput fixes the parse result's tree in place instead of a copy.
	MutableInput bool
}

// New creates a new Fixer instance with default settings
func New() *Fixer {
	return &Fixer{}
}

// Fix parses the document at specPath (local file or URL) and fixes it.
// External references are not bundled; use the normalizer package for that.
func (f *Fixer) Fix(specPath string) (*FixResult, error) {
	p := parser.New()
	if f.UserAgent != "" {
		p.UserAgent = f.UserAgent
	}
	p.Logger = f.Logger

	parseResult, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("fixer: failed to parse specification: %w", err)
	}
	return f.fixParsed(*parseResult, true)
}

// FixParsed fixes an already-parsed document.
func (f *Fixer) FixParsed(parseResult parser.ParseResult) (*FixResult, error) {
	return f.fixParsed(parseResult, f.MutableInput)
}

func (f *Fixer) fixParsed(parseResult parser.ParseResult, mutable bool) (*FixResult, error) {
	if parseResult.Root == nil {
		return nil, &oaserrors.ConfigError{Option: "parse result", Message: "document tree is nil"}
	}

	root := parseResult.Root
	if !mutable {
		root = parser.DeepCopy(root)
	}

	result := &FixResult{
		Root:          root,
		SourceVersion: parseResult.Version,
		SourceFormat:  parseResult.SourceFormat,
		SourcePath:    parseResult.SourcePath,
		Stats:         parseResult.Stats,
		Fixes:         make([]Fix, 0),
		Success:       true,
	}

	f.applyFixPipeline(root, result)
	return result, nil
}

// isFixEnabled checks if a fix type is enabled.
func (f *Fixer) isFixEnabled(fixType FixType) bool {
	if len(f.EnabledFixes) == 0 {
		return true // all fixes enabled by default
	}
	for _, ft := range f.EnabledFixes {
		if ft == fixType {
			return true
		}
	}
	return false
}

func (f *Fixer) log() parser.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return parser.NopLogger{}
}

// progress writes a diagnostic line to Out.
func (f *Fixer) progress(format string, args ...any) {
	if f.Out == nil {
		return
	}
	cliutil.Linef(f.Out, format, args...)
}
