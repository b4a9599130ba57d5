// Package oaserrors provides structured error types for apimfix.
//
// Import path: github.com/erraggy/apimfix/oaserrors
//
// Only the resolution and I/O boundaries of the pipeline can fail; the schema
// repair passes never return errors. The types below let callers tell those
// failures apart with [errors.Is] and [errors.As].
//
// # Error Types
//
//   - [ParseError]: the source (or a fetched external document) is not valid JSON/YAML
//   - [ReferenceError]: a $ref target is missing, malformed, or circular
//   - [TransportError]: fetching the root or an external document failed
//   - [ResourceLimitError]: depth, size, or document count limits were exceeded
//   - [ConfigError]: invalid options were supplied
//
// # Sentinel Errors
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrCircularReference]: matches [ReferenceError] with IsCircular=true
//   - [ErrTransport]: matches any [TransportError]
//   - [ErrResourceLimit]: matches any [ResourceLimitError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage
//
//	result, err := normalizer.NormalizeWithOptions(normalizer.WithURL(specURL))
//	if err != nil {
//	    switch {
//	    case errors.Is(err, oaserrors.ErrTransport):
//	        // network problem, nothing was written
//	    case errors.Is(err, oaserrors.ErrParse):
//	        var pe *oaserrors.ParseError
//	        if errors.As(err, &pe) {
//	            fmt.Println(pe.Path, pe.Line, pe.Column)
//	        }
//	    }
//	}
package oaserrors
