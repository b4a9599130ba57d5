package parser

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/oaserrors"
)

// SourceFormat is the serialization format of a source document.
type SourceFormat string

const (
	// SourceFormatJSON is a JSON document.
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatYAML is a YAML document.
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatUnknown is used when the format could not be determined.
	SourceFormatUnknown SourceFormat = "unknown"
)

// FormatBytes formats a byte count into a human-readable string using binary units (KiB, MiB, etc.)
func FormatBytes(size int64) string {
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// detectFormatFromPath detects the source format from a file path or URL
func detectFormatFromPath(location string) SourceFormat {
	if isURL(location) {
		if u, err := url.Parse(location); err == nil {
			location = u.Path
		}
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent guesses the format from the first non-blank byte.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r\uFEFF")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// isURL determines if the given path is a URL (http:// or https://)
// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	return isURL(location)
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// resolveLocation resolves ref against the location of the document that
// contains it. URL bases use RFC 3986 resolution; file bases are joined
// against the directory of the base file.
func resolveLocation(base, ref string) (string, error) {
	if isURL(ref) {
		return ref, nil
	}
	if isURL(base) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		refURL, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid reference %q: %w", ref, err)
		}
		return baseURL.ResolveReference(refURL).String(), nil
	}
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref), nil
	}
	if base == "" {
		return filepath.Clean(ref), nil
	}
	return filepath.Join(filepath.Dir(base), ref), nil
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// decodeNode parses JSON or YAML bytes into a tree and returns its root
// mapping or sequence. location is only used for error messages.
func decodeNode(data []byte, location string) (*yaml.Node, SourceFormat, error) {
	format := detectFormatFromPath(location)
	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}
	if format == SourceFormatUnknown {
		return nil, format, &oaserrors.ParseError{Path: location, Message: "document is empty"}
	}

	// YAML accepts a superset of JSON; check JSON input strictly first so
	// syntax errors carry accurate positions.
	isJSON := json.Valid(data)
	if format == SourceFormatJSON && !isJSON {
		var scratch any
		err := json.Unmarshal(data, &scratch)
		perr := &oaserrors.ParseError{Path: location, Message: "invalid JSON", Cause: err}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			perr.Line, perr.Column = lineColumn(data, syntaxErr.Offset)
		}
		return nil, format, perr
	}

	// The YAML decoder rejects escaped UTF-16 surrogate pairs, which JSON
	// allows, so JSON text never goes through it.
	if isJSON {
		root, err := decodeJSONTree(data)
		if err != nil {
			return nil, format, &oaserrors.ParseError{Path: location, Message: "invalid JSON", Cause: err}
		}
		return root, format, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		perr := &oaserrors.ParseError{Path: location, Message: "invalid " + strings.ToUpper(string(format)), Cause: err}
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
		}
		return nil, format, perr
	}

	root := Resolve(&doc)
	if root == nil {
		return nil, format, &oaserrors.ParseError{Path: location, Message: "document is empty"}
	}
	return root, format, nil
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	column = int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, column
}
