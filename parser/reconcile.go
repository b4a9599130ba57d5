package parser

import "go.yaml.in/yaml/v4"

// RestoreLocalRefs reconciles a resolved tree with the tree it was resolved
// from. Wherever original holds a same-document reference node, the result
// holds a copy of that node, discarding whatever the resolved tree expanded
// it into. Mappings are merged by key and sequences by index; keys and
// indices that exist only in resolved are kept as they are. All other
// positions take the resolved value.
//
// resolved is updated in place and returned.
func RestoreLocalRefs(resolved, original *yaml.Node) *yaml.Node {
	resolved = Resolve(resolved)
	original = Resolve(original)
	if resolved == nil || original == nil {
		return resolved
	}

	switch {
	case original.Kind == yaml.MappingNode && resolved.Kind == yaml.MappingNode:
		if IsLocalRef(original) {
			return DeepCopy(original)
		}
		for i := 0; i+1 < len(resolved.Content); i += 2 {
			if orig := MapGet(original, resolved.Content[i].Value); orig != nil {
				resolved.Content[i+1] = RestoreLocalRefs(resolved.Content[i+1], orig)
			}
		}
		return resolved

	case original.Kind == yaml.SequenceNode && resolved.Kind == yaml.SequenceNode:
		for i := range resolved.Content {
			if i < len(original.Content) {
				resolved.Content[i] = RestoreLocalRefs(resolved.Content[i], original.Content[i])
			}
		}
		return resolved

	default:
		return resolved
	}
}
