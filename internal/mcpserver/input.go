package mcpserver

import (
	"fmt"

	"github.com/erraggy/apimfix"
	"github.com/erraggy/apimfix/normalizer"
	"github.com/erraggy/apimfix/parser"
)

// specInput represents the three ways a spec can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"     jsonschema:"Path to an OpenAPI file on disk"`
	URL     string `json:"url,omitempty"      jsonschema:"http(s) URL to fetch the OpenAPI document from. Relative $refs resolve against the URL's directory."`
	Content string `json:"content,omitempty"  jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
	BaseURL string `json:"base_url,omitempty" jsonschema:"Location that relative $refs in inline content resolve against"`
}

// validate checks that exactly one source is set and that inline content
// respects the size limit.
func (s specInput) validate() error {
	count := 0
	for _, set := range []bool{s.File != "", s.URL != "", s.Content != ""} {
		if set {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.URL != "" && !parser.IsURL(s.URL) {
		return fmt.Errorf("url must use http or https: %q", s.URL)
	}
	if s.BaseURL != "" && s.Content == "" {
		return fmt.Errorf("base_url only applies to inline content")
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APIMFIX_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// normalizerOptions translates the input into normalizer options, with the
// fetch settings of the server configuration.
func (s specInput) normalizerOptions() ([]normalizer.Option, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	opts := []normalizer.Option{
		normalizer.WithHTTPClient(newHTTPClient(cfg.HTTPTimeout, cfg.AllowPrivateIPs)),
		normalizer.WithUserAgent(apimfix.UserAgent()),
		normalizer.WithMaxFileSize(cfg.MaxFileSize),
	}
	switch {
	case s.File != "":
		opts = append(opts, normalizer.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, normalizer.WithURL(s.URL))
	default:
		opts = append(opts, normalizer.WithBytes([]byte(s.Content), s.BaseURL))
	}
	return opts, nil
}

// parse loads the document, bundling external references when resolveRefs is set.
func (s specInput) parse(resolveRefs bool) (*parser.ParseResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	opts := []parser.Option{
		parser.WithResolveRefs(resolveRefs),
		parser.WithHTTPClient(newHTTPClient(cfg.HTTPTimeout, cfg.AllowPrivateIPs)),
		parser.WithMaxFileSize(cfg.MaxFileSize),
	}
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, parser.WithFilePath(s.URL))
	default:
		opts = append(opts, parser.WithBytes([]byte(s.Content)), parser.WithLocation(s.BaseURL))
	}
	return parser.ParseWithOptions(opts...)
}
