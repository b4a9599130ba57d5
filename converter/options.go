package converter

import (
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/apimfix/internal/options"
	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

// Option is a function that configures a conversion operation
type Option func(*convertConfig) error

// convertConfig holds configuration for a conversion operation
type convertConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	parsed   *parser.ParseResult

	downgrade           bool
	targetVersion       string
	unsupportedKeywords []string
	includeInfo         bool
	userAgent           string
	logger              parser.Logger
	out                 io.Writer
	mutableInput        bool
}

// ConvertWithOptions converts a document using functional options.
//
// Example:
//
//	result, err := converter.ConvertWithOptions(
//	    converter.WithFilePath("openapi.json"),
//	    converter.WithTargetVersion("3.0.3"),
//	)
func ConvertWithOptions(opts ...Option) (*ConversionResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("converter: invalid options: %w", err)
	}

	c := &Converter{
		DowngradeVersion:    cfg.downgrade,
		TargetVersion:       cfg.targetVersion,
		UnsupportedKeywords: cfg.unsupportedKeywords,
		IncludeInfo:         cfg.includeInfo,
		UserAgent:           cfg.userAgent,
		Logger:              cfg.logger,
		Out:                 cfg.out,
		MutableInput:        cfg.mutableInput,
	}

	if cfg.filePath != nil {
		return c.Convert(*cfg.filePath)
	}
	return c.ConvertParsed(*cfg.parsed)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*convertConfig, error) {
	cfg := &convertConfig{
		downgrade:     true,
		targetVersion: DefaultTargetVersion,
		includeInfo:   true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireOneSource(
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithParsed", Set: cfg.parsed != nil},
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies the file path (local file or URL) to convert
func WithFilePath(path string) Option {
	return func(cfg *convertConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "file path", Message: "file path cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies an already-parsed specification to convert
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *convertConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithDowngrade controls whether the openapi field is rewritten.
// Default: true
func WithDowngrade(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.downgrade = enabled
		return nil
	}
}

// WithTargetVersion sets the version written when downgrading. Only 3.0.x
// versions are accepted.
// Default: "3.0.1"
func WithTargetVersion(version string) Option {
	return func(cfg *convertConfig) error {
		if !IsTargetVersion(version) {
			return &oaserrors.ConfigError{Option: "target version", Value: version, Message: "target version must be a 3.0.x release"}
		}
		cfg.targetVersion = version
		return nil
	}
}

// WithUnsupportedKeywords replaces the set of keywords removed from the tree.
func WithUnsupportedKeywords(keywords ...string) Option {
	return func(cfg *convertConfig) error {
		for _, k := range keywords {
			if k == "" {
				return &oaserrors.ConfigError{Option: "unsupported keywords", Message: "keyword cannot be empty"}
			}
		}
		cfg.unsupportedKeywords = keywords
		return nil
	}
}

// WithIncludeInfo controls whether informational issues are recorded.
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
func WithUserAgent(userAgent string) Option {
	return func(cfg *convertConfig) error {
		cfg.userAgent = userAgent
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l parser.Logger) Option {
	return func(cfg *convertConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithOutput sets the writer that receives progress lines.
func WithOutput(w io.Writer) Option {
	return func(cfg *convertConfig) error {
		cfg.out = w
		return nil
	}
}

// WithMutableInput converts the parsed tree in place instead of a copy.
func WithMutableInput(mutable bool) Option {
	return func(cfg *convertConfig) error {
		cfg.mutableInput = mutable
		return nil
	}
}

// IsTargetVersion reports whether v is an OpenAPI 3.0.x version string.
func IsTargetVersion(v string) bool {
	rest, ok := strings.CutPrefix(v, "3.0.")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
