// Package options holds validation shared by the *WithOptions entry points.
package options

import (
	"strings"

	"github.com/erraggy/apimfix/oaserrors"
)

// Source is one input option of a *WithOptions function and whether the
// caller supplied it.
type Source struct {
	Option string // e.g. "WithFilePath"
	Set    bool
}

// RequireOneSource checks that exactly one of sources is set. The error is
// a *oaserrors.ConfigError for the "input" option naming the candidates
// (none set) or the conflicting options (several set).
func RequireOneSource(sources ...Source) error {
	var all, set []string
	for _, s := range sources {
		all = append(all, s.Option)
		if s.Set {
			set = append(set, s.Option)
		}
	}

	switch len(set) {
	case 1:
		return nil
	case 0:
		return &oaserrors.ConfigError{
			Option:  "input",
			Message: "no input source specified: use " + joinOr(all),
		}
	default:
		return &oaserrors.ConfigError{
			Option:  "input",
			Message: "multiple input sources specified: " + strings.Join(set, ", "),
		}
	}
}

// joinOr renders ["A", "B", "C"] as "A, B or C".
func joinOr(names []string) string {
	switch len(names) {
	case 0:
		return "an input option"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
