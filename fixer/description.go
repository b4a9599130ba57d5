package fixer

import (
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/pathutil"
	"github.com/erraggy/apimfix/parser"
)

// descriptionIndent is the indentation of the JSON text that replaces an
// object-valued description.
const descriptionIndent = "  "

// fixDescriptions replaces every mapping-valued "description" with the
// indented JSON text of that mapping. The replaced value is not visited.
func (f *Fixer) fixDescriptions(root *yaml.Node, result *FixResult) {
	path := pathutil.Get()
	defer pathutil.Put(path)

	f.walkDescriptions(root, path, result)
}

func (f *Fixer) walkDescriptions(n *yaml.Node, path *pathutil.PathBuilder, result *FixResult) {
	n = parser.Resolve(n)
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			path.Push(key)
			if key == "description" && parser.IsMapping(n.Content[i+1]) {
				f.stringifyDescription(n, i+1, path.String(), result)
			} else {
				f.walkDescriptions(n.Content[i+1], path, result)
			}
			path.Pop()
		}

	case yaml.SequenceNode:
		for i, child := range n.Content {
			path.PushIndex(i)
			f.walkDescriptions(child, path, result)
			path.Pop()
		}
	}
}

func (f *Fixer) stringifyDescription(parent *yaml.Node, valueIdx int, location string, result *FixResult) {
	value := parent.Content[valueIdx]
	text, err := parser.MarshalJSONIndent(value, "", descriptionIndent)
	if err != nil {
		f.log().Warn("leaving description unchanged", "path", location, "error", err)
		return
	}

	f.progress("  Fixing complex description object...")
	f.log().Debug("description object converted to text", "path", location, "length", len(text))
	parent.Content[valueIdx] = parser.NewString(string(text))
	result.Fixes = append(result.Fixes, Fix{
		Type:        FixTypeDescriptionObject,
		Path:        location,
		Description: "converted object-valued description to JSON text",
		Before:      parser.ToAny(value),
		After:       string(text),
	})
}
