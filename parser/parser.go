package parser

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix"
	"github.com/erraggy/apimfix/oaserrors"
)

// Parser loads OpenAPI documents into ordered trees and optionally bundles
// their external references.
type Parser struct {
	// ResolveRefs inlines external $ref targets after loading.
	// Same-document references are always kept as written.
	ResolveRefs bool
	// UserAgent is the User-Agent string used when fetching URLs
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a client with DefaultHTTPTimeout is created once per Parser.
	HTTPClient *http.Client
	// Fetcher overrides how documents are retrieved. If nil, URLs go through
	// HTTPClient and everything else is read from disk.
	Fetcher Fetcher
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger

	// Resource limits (0 means use default)

	// MaxRefDepth is the maximum nesting of reference expansions.
	// Default: 100
	MaxRefDepth int
	// MaxCachedDocuments is the maximum number of external documents to fetch.
	// Default: 100
	MaxCachedDocuments int
	// MaxFileSize is the maximum size in bytes of any fetched document,
	// the root included.
	// Default: 10MB
	MaxFileSize int64

	fetch Fetcher
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent: apimfix.UserAgent(),
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// fetcher returns the Fetcher for this parser, creating the default one
// on first use so every fetch shares one HTTP client.
func (p *Parser) fetcher() Fetcher {
	if p.Fetcher != nil {
		return p.Fetcher
	}
	if p.fetch == nil {
		p.fetch = NewDefaultFetcher(p.HTTPClient, p.UserAgent)
	}
	return p.fetch
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

// ParseResult holds a loaded document tree and metadata about it.
//
// Root is mutable: the fixer and converter packages rewrite it in place.
// Use Copy to keep an untouched version.
type ParseResult struct {
	// SourcePath is the location the document was read from.
	// For in-memory input without a location it is "ParseBytes.json" or "ParseBytes.yaml".
	SourcePath string
	// BaseLocation is the absolute location relative references were resolved against
	BaseLocation string
	// SourceFormat is the format of the source document (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the value of the top-level "openapi" (or "swagger") field
	Version string
	// Root is the document tree: the top-level mapping
	Root *yaml.Node
	// LoadTime is the time taken to load the source data (file, URL, etc.)
	LoadTime time.Duration
	// BundleTime is the time spent inlining external references
	BundleTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Stats contains statistical information about the document
	Stats DocumentStats
	// Bundle describes what reference bundling did (zero when ResolveRefs is off)
	Bundle BundleStats
}

// Copy returns a deep copy of the result.
func (pr *ParseResult) Copy() *ParseResult {
	if pr == nil {
		return nil
	}
	c := *pr
	c.Root = DeepCopy(pr.Root)
	return &c
}

// Parse parses a document from a file path or an http(s) URL.
func (p *Parser) Parse(location string) (*ParseResult, error) {
	base := location
	if !isURL(location) {
		abs, err := filepath.Abs(location)
		if err != nil {
			return nil, &oaserrors.ConfigError{Option: "file path", Value: location, Cause: err}
		}
		base = abs
	}

	loadStart := time.Now()
	data, err := p.fetcher()(base)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	if int64(len(data)) > p.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        p.maxFileSize(),
			Actual:       int64(len(data)),
			Message:      location,
		}
	}
	p.log().Debug("loaded document", "location", location, "size", len(data), "elapsed", loadTime)

	res, err := p.parse(data, base, location)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseReader parses a document read from r. Relative references resolve
// against the working directory.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	res, err := p.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseBytes parses an in-memory document. Relative references resolve
// against the working directory; use ParseBytesAt to give the document a
// location.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parse(data, "", "")
	if err != nil {
		return nil, err
	}
	if res.SourceFormat == SourceFormatJSON {
		res.SourcePath = "ParseBytes.json"
	} else {
		res.SourcePath = "ParseBytes.yaml"
	}
	return res, nil
}

// ParseBytesAt parses an in-memory document as if it had been read from
// location. This is how a downloaded copy is bundled against the URL it
// came from.
func (p *Parser) ParseBytesAt(data []byte, location string) (*ParseResult, error) {
	base := location
	if location != "" && !isURL(location) {
		if abs, err := filepath.Abs(location); err == nil {
			base = abs
		}
	}
	return p.parse(data, base, location)
}

func (p *Parser) parse(data []byte, base, sourcePath string) (*ParseResult, error) {
	root, format, err := decodeNode(data, sourcePath)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, &oaserrors.ParseError{Path: sourcePath, Line: root.Line, Column: root.Column, Message: "document root must be an object"}
	}

	result := &ParseResult{
		SourcePath:   sourcePath,
		BaseLocation: base,
		SourceFormat: format,
		Root:         root,
		SourceSize:   int64(len(data)),
	}
	if v, ok := StringValue(MapGet(root, "openapi")); ok {
		result.Version = v
	} else if v, ok := StringValue(MapGet(root, "swagger")); ok {
		result.Version = v
	}

	if p.ResolveRefs {
		if err := p.bundle(result); err != nil {
			return nil, err
		}
	}

	result.Stats = GetDocumentStats(result.Root)
	return result, nil
}

// Bundle inlines the external references of an already parsed result.
// The result's Root is replaced; the previous tree is not modified.
func (p *Parser) Bundle(result *ParseResult) error {
	if result == nil || result.Root == nil {
		return &oaserrors.ConfigError{Option: "parse result", Message: "nothing to bundle"}
	}
	if err := p.bundle(result); err != nil {
		return err
	}
	result.Stats = GetDocumentStats(result.Root)
	return nil
}

func (p *Parser) bundle(result *ParseResult) error {
	resolver := p.newRefResolver(result.BaseLocation)
	start := time.Now()
	bundled, err := resolver.Bundle(result.Root)
	if err != nil {
		return fmt.Errorf("parser: failed to bundle %s: %w", displayLocation(result.SourcePath), err)
	}
	result.Root = bundled
	result.Bundle = resolver.Stats()
	result.BundleTime = time.Since(start)
	return nil
}

func (p *Parser) newRefResolver(base string) *RefResolver {
	r := NewRefResolver(base, p.fetcher())
	r.Logger = p.Logger
	r.MaxRefDepth = p.MaxRefDepth
	r.MaxCachedDocuments = p.MaxCachedDocuments
	r.MaxFileSize = p.MaxFileSize
	return r
}
