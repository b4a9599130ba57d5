package parser

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/pathutil"
	"github.com/erraggy/apimfix/oaserrors"
)

// ResolvePointer returns the node addressed by a JSON Pointer fragment
// (without the leading '#') inside doc. The empty fragment addresses doc.
func ResolvePointer(doc *yaml.Node, fragment string) (*yaml.Node, error) {
	tokens, err := pathutil.PointerTokens(fragment)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: "#" + fragment, RefType: "local", Message: "invalid JSON pointer", Cause: err}
	}

	current := Resolve(doc)
	for i, tok := range tokens {
		next := childAt(current, tok)
		if next == nil {
			return nil, &oaserrors.ReferenceError{
				Ref:     "#" + fragment,
				RefType: "local",
				Message: fmt.Sprintf("path segment %q not found at position %d", tok, i),
			}
		}
		current = Resolve(next)
	}
	if current == nil {
		return nil, &oaserrors.ReferenceError{Ref: "#" + fragment, RefType: "local", Message: "empty document"}
	}
	return current, nil
}

// childAt returns the child of n addressed by one pointer token, or nil.
func childAt(n *yaml.Node, tok string) *yaml.Node {
	n = Resolve(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		return MapGet(n, tok)
	case yaml.SequenceNode:
		if idx, err := strconv.Atoi(tok); err == nil && idx >= 0 && idx < len(n.Content) {
			return n.Content[idx]
		}
	}
	return nil
}
