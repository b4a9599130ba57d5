package fixer

import (
	"fmt"
	"io"

	"github.com/erraggy/apimfix/internal/options"
	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

// Option is a function that configures a fix operation
type Option func(*fixConfig) error

// fixConfig holds configuration for a fix operation
type fixConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	parsed   *parser.ParseResult

	enabledFixes []FixType
	userAgent    string
	logger       parser.Logger
	out          io.Writer
	mutableInput bool
}

// FixWithOptions fixes a document using functional options.
//
// Example:
//
//	result, err := fixer.FixWithOptions(
//	    fixer.WithParsed(*parseResult),
//	    fixer.WithEnabledFixes(fixer.FixTypeDiscriminatorRequired),
//	)
func FixWithOptions(opts ...Option) (*FixResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("fixer: invalid options: %w", err)
	}

	f := &Fixer{
		EnabledFixes: cfg.enabledFixes,
		UserAgent:    cfg.userAgent,
		Logger:       cfg.logger,
		Out:          cfg.out,
		MutableInput: cfg.mutableInput,
	}

	if cfg.filePath != nil {
		return f.Fix(*cfg.filePath)
	}
	return f.FixParsed(*cfg.parsed)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*fixConfig, error) {
	cfg := &fixConfig{}

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

// WithFilePath specifies the file path (local file or URL) to fix
func WithFilePath(path string) Option {
	return func(cfg *fixConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "file path", Message: "file path cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies an already-parsed specification to fix
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *fixConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithEnabledFixes specifies which fix types to apply
func WithEnabledFixes(fixes ...FixType) Option {
	return func(cfg *fixConfig) error {
		for _, fix := range fixes {
			if !IsFixType(fix) {
				return &oaserrors.ConfigError{Option: "enabled fixes", Value: fix, Message: "unknown fix type"}
			}
		}
		cfg.enabledFixes = fixes
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
func WithUserAgent(userAgent string) Option {
	return func(cfg *fixConfig) error {
		cfg.userAgent = userAgent
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l parser.Logger) Option {
	return func(cfg *fixConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithOutput sets the writer that receives progress lines.
func WithOutput(w io.Writer) Option {
	return func(cfg *fixConfig) error {
		cfg.out = w
		return nil
	}
}

// WithMutableInput fixes the parsed tree in place instead of a copy.
func WithMutableInput(mutable bool) Option {
	return func(cfg *fixConfig) error {
		cfg.mutableInput = mutable
		return nil
	}
}
