package parser

import (
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/pathutil"
)

// Scalar tags used when building nodes.
const (
	TagString = "!!str"
	TagInt    = "!!int"
	TagFloat  = "!!float"
	TagBool   = "!!bool"
	TagNull   = "!!null"
)

// Resolve follows alias nodes and unwraps document nodes.
// It returns nil for nil input.
func Resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.AliasNode:
			n = n.Alias
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		default:
			return n
		}
	}
	return nil
}

// IsMapping reports whether n (after alias resolution) is a mapping.
func IsMapping(n *yaml.Node) bool {
	n = Resolve(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// IsSequence reports whether n (after alias resolution) is a sequence.
func IsSequence(n *yaml.Node) bool {
	n = Resolve(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

// StringValue returns the value of a string scalar.
// Non-string scalars (numbers, booleans, null) are rejected.
func StringValue(n *yaml.Node) (string, bool) {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != TagString {
		return "", false
	}
	return n.Value, true
}

// MapGet returns the value stored under key in mapping m, or nil.
func MapGet(m *yaml.Node, key string) *yaml.Node {
	m = Resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// MapSet stores value under key. An existing entry is replaced in place so it
// keeps its position; a new entry is appended.
func MapSet(m *yaml.Node, key string, value *yaml.Node) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, NewString(key), value)
}

// MapDelete removes the given keys from m and returns the ones that were
// present, in the order they were requested.
func MapDelete(m *yaml.Node, keys ...string) []string {
	if m == nil || m.Kind != yaml.MappingNode || len(keys) == 0 {
		return nil
	}
	var removed []string
	for _, key := range keys {
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == key {
				m.Content = append(m.Content[:i], m.Content[i+2:]...)
				removed = append(removed, key)
				break
			}
		}
	}
	return removed
}

// MapKeys returns the keys of m in insertion order.
func MapKeys(m *yaml.Node) []string {
	m = Resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

// NewMapping returns a mapping built from alternating key/value pairs.
func NewMapping(pairs ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		m.Content = append(m.Content, NewString(key), toNode(pairs[i+1]))
	}
	return m
}

// NewSequence returns a sequence holding items.
func NewSequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// NewString returns a string scalar.
func NewString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagString, Value: s}
}

func toNode(v any) *yaml.Node {
	switch val := v.(type) {
	case *yaml.Node:
		return val
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagNull, Value: "null"}
	case string:
		return NewString(val)
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagBool, Value: strconv.FormatBool(val)}
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagInt, Value: strconv.Itoa(val)}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagFloat, Value: strconv.FormatFloat(val, 'g', -1, 64)}
	default:
		return NewString("")
	}
}

// RefValue returns the target of a reference node: a mapping whose "$ref"
// entry is a string scalar.
func RefValue(n *yaml.Node) (string, bool) {
	ref := MapGet(n, pathutil.RefKey)
	if ref == nil {
		return "", false
	}
	return StringValue(ref)
}

// IsLocalRef reports whether n is a reference node pointing into its own
// document ("#...").
func IsLocalRef(n *yaml.Node) bool {
	ref, ok := RefValue(n)
	return ok && pathutil.IsLocalRef(ref)
}

// DeepCopy returns an independent copy of n. Aliases are expanded so the copy
// never shares structure with the source.
func DeepCopy(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode {
		return DeepCopy(n.Alias)
	}
	c := &yaml.Node{
		Kind:   n.Kind,
		Style:  n.Style,
		Tag:    n.Tag,
		Value:  n.Value,
		Line:   n.Line,
		Column: n.Column,
	}
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = DeepCopy(child)
		}
	}
	return c
}

// ToAny converts n into plain Go values: map[string]any, []any, string,
// int64, float64, bool or nil. Key order is lost; it is meant for comparisons.
func ToAny(n *yaml.Node) any {
	n = Resolve(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = ToAny(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, len(n.Content))
		for i, child := range n.Content {
			s[i] = ToAny(child)
		}
		return s
	}
	switch n.ShortTag() {
	case TagNull:
		return nil
	case TagBool:
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case TagInt:
		var i int64
		if err := n.Decode(&i); err == nil {
			return i
		}
	case TagFloat:
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
