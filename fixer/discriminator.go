package fixer

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/pathutil"
	"github.com/erraggy/apimfix/parser"
)

// polymorphicKeys are the composition keywords whose alternatives must
// list the discriminator property as required.
var polymorphicKeys = []string{"oneOf", "anyOf", "allOf"}

// fixDiscriminators visits every mapping in pre-order. For each schema with
// discriminator.propertyName, every alternative under oneOf, anyOf and allOf
// gets the property in its required list.
func (f *Fixer) fixDiscriminators(root *yaml.Node, result *FixResult) {
	path := pathutil.Get()
	defer pathutil.Put(path)

	f.walkDiscriminators(root, path, result)
}

func (f *Fixer) walkDiscriminators(n *yaml.Node, path *pathutil.PathBuilder, result *FixResult) {
	n = parser.Resolve(n)
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.MappingNode:
		if propName, ok := discriminatorProperty(n); ok {
			f.repairDiscriminator(n, propName, path, result)
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			path.Push(n.Content[i].Value)
			f.walkDiscriminators(n.Content[i+1], path, result)
			path.Pop()
		}

	case yaml.SequenceNode:
		for i, child := range n.Content {
			path.PushIndex(i)
			f.walkDiscriminators(child, path, result)
			path.Pop()
		}
	}
}

// discriminatorProperty returns discriminator.propertyName when schema has a
// string one.
func discriminatorProperty(schema *yaml.Node) (string, bool) {
	disc := parser.MapGet(schema, "discriminator")
	if !parser.IsMapping(disc) {
		return "", false
	}
	return parser.StringValue(parser.MapGet(disc, "propertyName"))
}

func (f *Fixer) repairDiscriminator(schema *yaml.Node, propName string, path *pathutil.PathBuilder, result *FixResult) {
	f.progress("  Fixing discriminator for property: '%s'", propName)

	for _, key := range polymorphicKeys {
		alternatives := parser.Resolve(parser.MapGet(schema, key))
		if alternatives == nil || alternatives.Kind != yaml.SequenceNode {
			continue
		}

		path.Push(key)
		for i, sub := range alternatives.Content {
			before, changed := requireProperty(parser.Resolve(sub), propName)
			if !changed {
				continue
			}

			path.PushIndex(i)
			location := path.String()
			path.Pop()

			f.progress("    Added '%s' to required list for a sub-schema.", propName)
			f.log().Debug("discriminator property marked required", "path", location, "property", propName)
			result.Fixes = append(result.Fixes, Fix{
				Type:        FixTypeDiscriminatorRequired,
				Path:        location,
				Description: fmt.Sprintf("added discriminator property '%s' to required", propName),
				Before:      before,
				After:       requiredList(parser.MapGet(sub, "required")),
			})
		}
		path.Pop()
	}
}

// requireProperty makes sure sub lists propName in its required sequence,
// creating the sequence when absent. It returns the previous list and
// whether sub changed. Non-mapping schemas and non-sequence required values
// are left alone.
func requireProperty(sub *yaml.Node, propName string) (before []string, changed bool) {
	if sub == nil || sub.Kind != yaml.MappingNode {
		return nil, false
	}

	required := parser.MapGet(sub, "required")
	if required == nil {
		required = parser.NewSequence()
		parser.MapSet(sub, "required", required)
		changed = true
	} else {
		required = parser.Resolve(required)
		if required == nil || required.Kind != yaml.SequenceNode {
			return nil, false
		}
		before = requiredList(required)
	}

	for _, item := range required.Content {
		if name, ok := parser.StringValue(item); ok && name == propName {
			return before, changed
		}
	}
	required.Content = append(required.Content, parser.NewString(propName))
	return before, true
}

// requiredList returns the string entries of a required sequence.
func requiredList(seq *yaml.Node) []string {
	seq = parser.Resolve(seq)
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil
	}
	names := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		if name, ok := parser.StringValue(item); ok {
			names = append(names, name)
		}
	}
	return names
}
