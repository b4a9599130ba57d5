package normalizer

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/converter"
	"github.com/erraggy/apimfix/fixer"
	"github.com/erraggy/apimfix/internal/cliutil"
	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

// DefaultDowngrade is the default for Normalizer.Downgrade. Newer APIM
// instances accept OpenAPI 3.1 documents, older ones only accept 3.0.
const DefaultDowngrade = true

// Result contains the outcome of a normalization run
type Result struct {
	// SourcePath is the location the document was read from
	SourcePath string
	// BaseLocation is the location relative references were resolved against
	BaseLocation string
	// SourceFormat is the format of the source document (JSON or YAML)
	SourceFormat parser.SourceFormat
	// SourceVersion is the openapi field value of the input
	SourceVersion string
	// TargetVersion is the openapi field value of the output
	TargetVersion string
	// Root is the normalized document tree
	Root *yaml.Node
	// Data is Root serialized as 2-space indented JSON
	Data []byte
	// Fixes contains every repair applied, discriminators first
	Fixes []fixer.Fix
	// Issues contains the conversion issues (version rewrite, removed keywords)
	Issues []converter.ConversionIssue
	// RemovedKeywords is the number of unsupported keywords deleted
	RemovedKeywords int
	// InputSize is the size of the root document in bytes
	InputSize int64
	// OutputSize is len(Data)
	OutputSize int64
	// Stats describes the normalized document
	Stats parser.DocumentStats
	// Bundle describes what reference bundling did
	Bundle parser.BundleStats

	LoadTime    time.Duration
	BundleTime  time.Duration
	FixTime     time.Duration
	ConvertTime time.Duration
	MarshalTime time.Duration
	TotalTime   time.Duration
}

// FixCount returns the number of repairs applied
func (r *Result) FixCount() int {
	return len(r.Fixes)
}

// Normalizer runs the full pipeline over one document: bundle, repair
// discriminators, normalize descriptions, rewrite the version, strip
// unsupported keywords and serialize.
type Normalizer struct {
	// Downgrade rewrites the openapi field to TargetVersion.
	// Default: DefaultDowngrade
	Downgrade bool
	// TargetVersion is the version written when Downgrade is set.
	// Default: converter.DefaultTargetVersion
	TargetVersion string
	// EnabledFixes limits the repairs applied. Nil or empty means all.
	EnabledFixes []fixer.FixType
	// HTTPClient is the client used to fetch URLs.
	// If nil, the parser creates one with parser.DefaultHTTPTimeout.
	HTTPClient *http.Client
	// Fetcher overrides how documents are retrieved.
	Fetcher parser.Fetcher
	// UserAgent is the User-Agent string used when fetching URLs
	UserAgent string
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled.
	Logger parser.Logger
	// Out receives the progress lines. If nil, nothing is written.
	Out io.Writer
	// MutableInput lets NormalizeParsed rewrite the given tree in place.
	MutableInput bool

	// Resource limits passed to the parser (0 means parser default)
	MaxRefDepth        int
	MaxCachedDocuments int
	MaxFileSize        int64
}

// New creates a new Normalizer instance with default settings
func New() *Normalizer {
	return &Normalizer{
		Downgrade:     DefaultDowngrade,
		TargetVersion: converter.DefaultTargetVersion,
	}
}

// Normalize loads the document at location (file path or http(s) URL) and
// runs the pipeline. Relative references resolve against location.
func (n *Normalizer) Normalize(location string) (*Result, error) {
	start := time.Now()
	n.progress("Loading spec from %s...", location)

	p := n.newParser()
	pr, err := p.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("normalizer: failed to load %s: %w", location, err)
	}
	return n.run(p, pr, start)
}

// NormalizeBytes runs the pipeline over an in-memory document. location is
// the base for relative references and may be a URL; empty means the
// working directory.
func (n *Normalizer) NormalizeBytes(data []byte, location string) (*Result, error) {
	start := time.Now()
	shown := location
	if shown == "" {
		shown = "memory"
	}
	n.progress("Loading spec from %s...", shown)

	p := n.newParser()
	var (
		pr  *parser.ParseResult
		err error
	)
	if location == "" {
		pr, err = p.ParseBytes(data)
	} else {
		pr, err = p.ParseBytesAt(data, location)
	}
	if err != nil {
		return nil, fmt.Errorf("normalizer: failed to load %s: %w", shown, err)
	}
	return n.run(p, pr, start)
}

// NormalizeParsed runs the pipeline over an already-parsed, unbundled
// document. The given tree is copied unless MutableInput is set.
func (n *Normalizer) NormalizeParsed(parseResult parser.ParseResult) (*Result, error) {
	if parseResult.Root == nil {
		return nil, &oaserrors.ConfigError{Option: "parse result", Message: "document tree is nil"}
	}
	pr := &parseResult
	if !n.MutableInput {
		pr = parseResult.Copy()
	}
	return n.run(n.newParser(), pr, time.Now())
}

// run drives the pipeline. p is the parser that loaded pr; reusing it keeps
// one fetcher and its connection pool for the whole run.
func (n *Normalizer) run(p *parser.Parser, pr *parser.ParseResult, start time.Time) (*Result, error) {
	result := &Result{
		SourcePath:    pr.SourcePath,
		BaseLocation:  pr.BaseLocation,
		SourceFormat:  pr.SourceFormat,
		SourceVersion: pr.Version,
		TargetVersion: pr.Version,
		InputSize:     pr.SourceSize,
		LoadTime:      pr.LoadTime,
	}

	n.progress("Bundling external references while preserving internal $refs...")
	if err := p.Bundle(pr); err != nil {
		return nil, fmt.Errorf("normalizer: %w", err)
	}
	result.Bundle = pr.Bundle
	result.BundleTime = pr.BundleTime
	n.log().Debug("bundled document",
		"externalRefs", pr.Bundle.ExternalRefs,
		"preservedRefs", pr.Bundle.PreservedRefs,
		"documents", pr.Bundle.Documents)

	fixStart := time.Now()
	if err := n.runFixes(pr, result); err != nil {
		return nil, err
	}
	result.FixTime = time.Since(fixStart)

	convertStart := time.Now()
	if err := n.runConversion(pr, result); err != nil {
		return nil, err
	}
	result.ConvertTime = time.Since(convertStart)

	marshalStart := time.Now()
	data, err := parser.MarshalJSONIndent(pr.Root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("normalizer: failed to serialize document: %w", err)
	}
	result.MarshalTime = time.Since(marshalStart)

	result.Root = pr.Root
	result.Data = data
	result.OutputSize = int64(len(data))
	result.Stats = parser.GetDocumentStats(pr.Root)
	result.TotalTime = time.Since(start)

	n.log().Info("normalized document",
		"source", result.SourcePath,
		"fixes", len(result.Fixes),
		"removedKeywords", result.RemovedKeywords,
		"inputSize", result.InputSize,
		"outputSize", result.OutputSize,
		"elapsed", result.TotalTime)
	return result, nil
}

// runFixes applies each enabled repair as its own stage so every stage
// gets a progress line.
func (n *Normalizer) runFixes(pr *parser.ParseResult, result *Result) error {
	stages := []struct {
		fixType fixer.FixType
		title   string
	}{
		{fixer.FixTypeDiscriminatorRequired, "Fixing discriminator properties..."},
		{fixer.FixTypeDescriptionObject, "Fixing complex description objects..."},
	}

	for _, stage := range stages {
		if !n.isFixEnabled(stage.fixType) {
			continue
		}
		n.progress("%s", stage.title)

		f := &fixer.Fixer{
			EnabledFixes: []fixer.FixType{stage.fixType},
			Logger:       n.Logger,
			Out:          n.Out,
			MutableInput: true,
		}
		fixResult, err := f.FixParsed(*pr)
		if err != nil {
			return fmt.Errorf("normalizer: %w", err)
		}
		result.Fixes = append(result.Fixes, fixResult.Fixes...)
	}
	return nil
}

func (n *Normalizer) runConversion(pr *parser.ParseResult, result *Result) error {
	target := n.TargetVersion
	if target == "" {
		target = converter.DefaultTargetVersion
	}
	if n.Downgrade {
		n.progress("Downgrading OpenAPI version to %s...", target)
	} else {
		n.progress("Preserving OpenAPI version %s", displayVersion(pr.Version))
	}
	n.progress("Removing OpenAPI 3.1 incompatible properties...")

	c := &converter.Converter{
		DowngradeVersion: n.Downgrade,
		TargetVersion:    target,
		IncludeInfo:      true,
		Logger:           n.Logger,
		Out:              n.Out,
		MutableInput:     true,
	}
	convResult, err := c.ConvertParsed(*pr)
	if err != nil {
		return fmt.Errorf("normalizer: %w", err)
	}
	result.Issues = convResult.Issues
	result.RemovedKeywords = convResult.RemovedKeywords
	result.TargetVersion = convResult.TargetVersion
	return nil
}

func (n *Normalizer) isFixEnabled(fixType fixer.FixType) bool {
	if len(n.EnabledFixes) == 0 {
		return true
	}
	for _, ft := range n.EnabledFixes {
		if ft == fixType {
			return true
		}
	}
	return false
}

func (n *Normalizer) newParser() *parser.Parser {
	p := parser.New()
	if n.UserAgent != "" {
		p.UserAgent = n.UserAgent
	}
	p.HTTPClient = n.HTTPClient
	p.Fetcher = n.Fetcher
	p.Logger = n.Logger
	p.MaxRefDepth = n.MaxRefDepth
	p.MaxCachedDocuments = n.MaxCachedDocuments
	p.MaxFileSize = n.MaxFileSize
	return p
}

func (n *Normalizer) log() parser.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return parser.NopLogger{}
}

func (n *Normalizer) progress(format string, args ...any) {
	if n.Out == nil {
		return
	}
	cliutil.Linef(n.Out, format, args...)
}

func displayVersion(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
