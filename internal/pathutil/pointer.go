package pathutil

import (
	"fmt"
	"net/url"
	"strings"
)

// RefKey is the mapping key that marks a reference node.
const RefKey = "$ref"

// IsLocalRef reports whether ref points into the document that contains it.
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, "#")
}

// SplitRef splits a reference into its document location and fragment.
// The fragment is returned without the leading '#'.
//
//	SplitRef("other.json#/def") // "other.json", "/def"
//	SplitRef("#/components")    // "", "/components"
//	SplitRef("other.json")      // "other.json", ""
func SplitRef(ref string) (location, fragment string) {
	location, fragment, _ = strings.Cut(ref, "#")
	return location, fragment
}

// PointerTokens decodes a JSON Pointer fragment into its reference tokens.
// Percent-encoding is decoded first, then "~1" and "~0" per RFC 6901.
// The empty fragment and "/" both address the document root.
func PointerTokens(fragment string) ([]string, error) {
	if fragment == "" || fragment == "/" {
		return nil, nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return nil, fmt.Errorf("pathutil: JSON pointer %q must start with '/'", fragment)
	}
	raw := strings.Split(fragment[1:], "/")
	tokens := make([]string, len(raw))
	for i, tok := range raw {
		if decoded, err := url.PathUnescape(tok); err == nil {
			tok = decoded
		}
		tokens[i] = UnescapePointerToken(tok)
	}
	return tokens, nil
}

// UnescapePointerToken unescapes a single JSON Pointer token.
// Per RFC 6901, ~1 represents / and ~0 represents ~.
func UnescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// EscapePointerToken is the inverse of UnescapePointerToken.
func EscapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}
