package converter

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/pathutil"
	"github.com/erraggy/apimfix/parser"
)

// stripUnsupported removes the unsupported keywords from every mapping in
// the tree. Keys are removed before the mapping's children are visited.
func (c *Converter) stripUnsupported(root *yaml.Node, result *ConversionResult) {
	keywords := c.unsupportedKeywords()
	if len(keywords) == 0 {
		return
	}

	path := pathutil.Get()
	defer pathutil.Put(path)

	c.walkKeywords(root, keywords, path, result)
}

func (c *Converter) walkKeywords(n *yaml.Node, keywords []string, path *pathutil.PathBuilder, result *ConversionResult) {
	n = parser.Resolve(n)
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.MappingNode:
		if removed := parser.MapDelete(n, keywords...); len(removed) > 0 {
			location := path.String()
			shown := location
			if shown == "" {
				shown = "(root)"
			}
			c.progress("  Removed %s from %s", quoteList(removed), shown)
			result.RemovedKeywords += len(removed)
			c.addIssue(result, ConversionIssue{
				Path:     location,
				Field:    strings.Join(removed, ","),
				Message:  fmt.Sprintf("removed unsupported keywords: %s", strings.Join(removed, ", ")),
				Severity: SeverityWarning,
				Value:    removed,
			})
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			path.Push(n.Content[i].Value)
			c.walkKeywords(n.Content[i+1], keywords, path, result)
			path.Pop()
		}

	case yaml.SequenceNode:
		for i, child := range n.Content {
			path.PushIndex(i)
			c.walkKeywords(child, keywords, path, result)
			path.Pop()
		}
	}
}

// quoteList formats keys as ['a', 'b'].
func quoteList(keys []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("'" + k + "'")
	}
	b.WriteByte(']')
	return b.String()
}
