package parser

import (
	"fmt"
	"io"
	"net/http"

	"github.com/erraggy/apimfix"
	"github.com/erraggy/apimfix/internal/options"
	"github.com/erraggy/apimfix/oaserrors"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	// location gives in-memory input a base for relative references
	location string

	resolveRefs bool
	userAgent   string
	httpClient  *http.Client
	fetcher     Fetcher
	logger      Logger

	// Resource limits (0 means use default)
	maxRefDepth        int
	maxCachedDocuments int
	maxFileSize        int64
}

// ParseWithOptions parses a document using functional options.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("inference.json"),
//	    parser.WithResolveRefs(true),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		ResolveRefs:        cfg.resolveRefs,
		UserAgent:          cfg.userAgent,
		HTTPClient:         cfg.httpClient,
		Fetcher:            cfg.fetcher,
		Logger:             cfg.logger,
		MaxRefDepth:        cfg.maxRefDepth,
		MaxCachedDocuments: cfg.maxCachedDocuments,
		MaxFileSize:        cfg.maxFileSize,
	}

	switch {
	case cfg.filePath != nil:
		return p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		data, err := io.ReadAll(cfg.reader)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read data: %w", err)
		}
		return p.parseInMemory(data, cfg.location)
	default:
		return p.parseInMemory(cfg.bytes, cfg.location)
	}
}

func (p *Parser) parseInMemory(data []byte, location string) (*ParseResult, error) {
	if location != "" {
		return p.ParseBytesAt(data, location)
	}
	return p.ParseBytes(data)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		userAgent: apimfix.UserAgent(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireOneSource(
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithReader", Set: cfg.reader != nil},
		options.Source{Option: "WithBytes", Set: cfg.bytes != nil},
	); err != nil {
		return nil, err
	}
	if cfg.filePath != nil && cfg.location != "" {
		return nil, &oaserrors.ConfigError{Option: "location", Value: cfg.location, Message: "WithLocation only applies to WithReader and WithBytes"}
	}

	return cfg, nil
}

// WithFilePath specifies a file path or URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "reader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return &oaserrors.ConfigError{Option: "bytes", Message: "bytes cannot be nil"}
		}
		cfg.bytes = data
		return nil
	}
}

// WithLocation sets the location (URL or file path) that in-memory input
// was obtained from. Relative references resolve against it, and references
// back to it become same-document references.
func WithLocation(location string) Option {
	return func(cfg *parseConfig) error {
		cfg.location = location
		return nil
	}
}

// WithResolveRefs enables or disables bundling of external references
// Default: false
func WithResolveRefs(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.resolveRefs = enabled
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "apimfix/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *parseConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for every fetch of the run.
// If the client is nil, this option has no effect (default client is used).
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *parseConfig) error {
		if client != nil {
			cfg.httpClient = client
		}
		return nil
	}
}

// WithFetcher replaces the default HTTP/filesystem fetcher.
func WithFetcher(fetch Fetcher) Option {
	return func(cfg *parseConfig) error {
		if fetch == nil {
			return &oaserrors.ConfigError{Option: "fetcher", Message: "fetcher cannot be nil"}
		}
		cfg.fetcher = fetch
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxRefDepth sets the maximum nesting of reference expansions.
// 0 means DefaultMaxRefDepth.
func WithMaxRefDepth(depth int) Option {
	return func(cfg *parseConfig) error {
		if depth < 0 {
			return &oaserrors.ConfigError{Option: "max ref depth", Value: depth, Message: "cannot be negative"}
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxCachedDocuments sets the maximum number of external documents.
// 0 means DefaultMaxCachedDocuments.
func WithMaxCachedDocuments(count int) Option {
	return func(cfg *parseConfig) error {
		if count < 0 {
			return &oaserrors.ConfigError{Option: "max cached documents", Value: count, Message: "cannot be negative"}
		}
		cfg.maxCachedDocuments = count
		return nil
	}
}

// WithMaxFileSize sets the maximum size in bytes of any fetched document.
// 0 means DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if size < 0 {
			return &oaserrors.ConfigError{Option: "max file size", Value: size, Message: "cannot be negative"}
		}
		cfg.maxFileSize = size
		return nil
	}
}
