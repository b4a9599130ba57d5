package normalizer

import (
	"fmt"
	"io"
	"net/http"

	"github.com/erraggy/apimfix/converter"
	"github.com/erraggy/apimfix/fixer"
	"github.com/erraggy/apimfix/internal/options"
	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

// Option is a function that configures a normalization run
type Option func(*normalizeConfig) error

// normalizeConfig holds configuration for a normalization run
type normalizeConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	url      *string
	data     []byte
	parsed   *parser.ParseResult

	// location is the base for relative references of byte input
	location string

	downgrade          bool
	targetVersion      string
	enabledFixes       []fixer.FixType
	httpClient         *http.Client
	fetcher            parser.Fetcher
	userAgent          string
	logger             parser.Logger
	out                io.Writer
	mutableInput       bool
	maxRefDepth        int
	maxCachedDocuments int
	maxFileSize        int64
}

// NormalizeWithOptions runs the pipeline using functional options.
//
// Example:
//
//	result, err := normalizer.NormalizeWithOptions(
//	    normalizer.WithURL(specURL),
//	    normalizer.WithOutput(os.Stdout),
//	)
func NormalizeWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("normalizer: invalid options: %w", err)
	}

	n := &Normalizer{
		Downgrade:          cfg.downgrade,
		TargetVersion:      cfg.targetVersion,
		EnabledFixes:       cfg.enabledFixes,
		HTTPClient:         cfg.httpClient,
		Fetcher:            cfg.fetcher,
		UserAgent:          cfg.userAgent,
		Logger:             cfg.logger,
		Out:                cfg.out,
		MutableInput:       cfg.mutableInput,
		MaxRefDepth:        cfg.maxRefDepth,
		MaxCachedDocuments: cfg.maxCachedDocuments,
		MaxFileSize:        cfg.maxFileSize,
	}

	switch {
	case cfg.filePath != nil:
		return n.Normalize(*cfg.filePath)
	case cfg.url != nil:
		return n.Normalize(*cfg.url)
	case cfg.data != nil:
		return n.NormalizeBytes(cfg.data, cfg.location)
	default:
		return n.NormalizeParsed(*cfg.parsed)
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*normalizeConfig, error) {
	cfg := &normalizeConfig{
		downgrade:     DefaultDowngrade,
		targetVersion: converter.DefaultTargetVersion,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireOneSource(
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithURL", Set: cfg.url != nil},
		options.Source{Option: "WithBytes", Set: cfg.data != nil},
		options.Source{Option: "WithParsed", Set: cfg.parsed != nil},
	); err != nil {
		return nil, err
	}

	if cfg.location != "" && cfg.data == nil {
		return nil, &oaserrors.ConfigError{Option: "location", Value: cfg.location, Message: "a base location only applies to WithBytes input"}
	}

	return cfg, nil
}

// WithFilePath specifies a local file to normalize
func WithFilePath(path string) Option {
	return func(cfg *normalizeConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "file path", Message: "file path cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithURL specifies an http(s) URL to download and normalize. Relative
// references resolve against the URL's directory.
func WithURL(url string) Option {
	return func(cfg *normalizeConfig) error {
		if !parser.IsURL(url) {
			return &oaserrors.ConfigError{Option: "url", Value: url, Message: "must be an http or https URL"}
		}
		cfg.url = &url
		return nil
	}
}

// WithBytes specifies an in-memory document. location is the base for
// relative references (a URL or file path); empty means the working
// directory.
func WithBytes(data []byte, location string) Option {
	return func(cfg *normalizeConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.data = data
		cfg.location = location
		return nil
	}
}

// WithParsed specifies an already-parsed, unbundled document
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *normalizeConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithDowngrade controls whether the openapi field is rewritten.
// Default: DefaultDowngrade
func WithDowngrade(enabled bool) Option {
	return func(cfg *normalizeConfig) error {
		cfg.downgrade = enabled
		return nil
	}
}

// WithTargetVersion sets the version written when downgrading.
// Default: "3.0.1"
func WithTargetVersion(version string) Option {
	return func(cfg *normalizeConfig) error {
		if !converter.IsTargetVersion(version) {
			return &oaserrors.ConfigError{Option: "target version", Value: version, Message: "target version must be a 3.0.x release"}
		}
		cfg.targetVersion = version
		return nil
	}
}

// WithEnabledFixes limits the repairs applied
func WithEnabledFixes(fixes ...fixer.FixType) Option {
	return func(cfg *normalizeConfig) error {
		for _, fix := range fixes {
			if !fixer.IsFixType(fix) {
				return &oaserrors.ConfigError{Option: "enabled fixes", Value: fix, Message: "unknown fix type"}
			}
		}
		cfg.enabledFixes = fixes
		return nil
	}
}

// WithHTTPClient sets the client used for every fetch of the run
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *normalizeConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithFetcher overrides how documents are retrieved
func WithFetcher(fetch parser.Fetcher) Option {
	return func(cfg *normalizeConfig) error {
		cfg.fetcher = fetch
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
func WithUserAgent(userAgent string) Option {
	return func(cfg *normalizeConfig) error {
		cfg.userAgent = userAgent
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l parser.Logger) Option {
	return func(cfg *normalizeConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithOutput sets the writer that receives progress lines.
func WithOutput(w io.Writer) Option {
	return func(cfg *normalizeConfig) error {
		cfg.out = w
		return nil
	}
}

// WithMutableInput lets WithParsed input be rewritten in place.
func WithMutableInput(mutable bool) Option {
	return func(cfg *normalizeConfig) error {
		cfg.mutableInput = mutable
		return nil
	}
}

// WithMaxRefDepth sets the maximum nesting of reference expansions
func WithMaxRefDepth(depth int) Option {
	return func(cfg *normalizeConfig) error {
		if depth < 0 {
			return &oaserrors.ConfigError{Option: "max ref depth", Value: depth, Message: "cannot be negative"}
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxCachedDocuments sets the maximum number of external documents fetched
func WithMaxCachedDocuments(count int) Option {
	return func(cfg *normalizeConfig) error {
		if count < 0 {
			return &oaserrors.ConfigError{Option: "max cached documents", Value: count, Message: "cannot be negative"}
		}
		cfg.maxCachedDocuments = count
		return nil
	}
}

// WithMaxFileSize sets the maximum size in bytes of any fetched document
func WithMaxFileSize(size int64) Option {
	return func(cfg *normalizeConfig) error {
		if size < 0 {
			return &oaserrors.ConfigError{Option: "max file size", Value: size, Message: "cannot be negative"}
		}
		cfg.maxFileSize = size
		return nil
	}
}
