// Package httputil provides HTTP-related constants shared by the packages
// that inspect path items.
package httputil

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
	MethodQuery   = "query" // OAS 3.2+ only
)

// OperationMethods lists the path item keys that hold operations, in the
// order they are conventionally written.
var OperationMethods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace, MethodQuery,
}

// IsOperationMethod reports whether key names an operation in a path item.
// Keys are matched case-sensitively.
func IsOperationMethod(key string) bool {
	for _, m := range OperationMethods {
		if m == key {
			return true
		}
	}
	return false
}
