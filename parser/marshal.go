package parser

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// MarshalJSON writes the tree as compact JSON. Mapping keys are emitted in
// insertion order and strings are not HTML-escaped.
func MarshalJSON(n *yaml.Node) ([]byte, error) {
	w := newJSONWriter()
	if err := w.node(n); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// MarshalJSONIndent is like MarshalJSON but indents nested values.
//
//	data, err := parser.MarshalJSONIndent(root, "", "  ")
func MarshalJSONIndent(n *yaml.Node, prefix, indent string) ([]byte, error) {
	compact, err := MarshalJSON(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(compact) + len(compact)/4)
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, fmt.Errorf("parser: failed to indent JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML writes the tree as block-style YAML with two-space
// indentation. Flow and quoting styles carried over from a JSON source are
// dropped; the encoder quotes a scalar only where plain text would change
// its type.
func MarshalYAML(n *yaml.Node) ([]byte, error) {
	out := DeepCopy(n)
	clearStyles(out)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("parser: failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func clearStyles(n *yaml.Node) {
	if n == nil {
		return
	}
	n.Style = 0
	for _, child := range n.Content {
		clearStyles(child)
	}
}

// jsonWriter renders a tree as JSON. Strings go through one reusable
// encoder with HTML escaping off, so "<", ">" and "&" stay literal.
type jsonWriter struct {
	buf     bytes.Buffer
	scratch bytes.Buffer
	enc     *json.Encoder
}

func newJSONWriter() *jsonWriter {
	w := &jsonWriter{}
	w.enc = json.NewEncoder(&w.scratch)
	w.enc.SetEscapeHTML(false)
	return w
}

func (w *jsonWriter) node(n *yaml.Node) error {
	buf := &w.buf
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return w.node(n.Content[0])

	case yaml.AliasNode:
		return w.node(n.Alias)

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := w.string(n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := w.node(n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := w.node(child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		return w.scalar(n)

	default:
		return fmt.Errorf("parser: unsupported node kind %d at line %d", n.Kind, n.Line)
	}
}

func (w *jsonWriter) scalar(n *yaml.Node) error {
	buf := &w.buf
	switch n.ShortTag() {
	case TagNull:
		buf.WriteString("null")
		return nil

	case TagBool:
		if n.Value == "true" || n.Value == "false" {
			buf.WriteString(n.Value)
			return nil
		}
		var b bool
		if err := n.Decode(&b); err != nil {
			return fmt.Errorf("parser: invalid boolean %q at line %d: %w", n.Value, n.Line, err)
		}
		buf.WriteString(strconv.FormatBool(b))
		return nil

	case TagInt, TagFloat:
		// JSON sources carry numbers already in JSON form; keep them byte for byte.
		if json.Valid([]byte(n.Value)) {
			buf.WriteString(n.Value)
			return nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return fmt.Errorf("parser: invalid number %q at line %d: %w", n.Value, n.Line, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("parser: number %q at line %d cannot be represented in JSON", n.Value, n.Line)
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		return nil

	default:
		return w.string(n.Value)
	}
}

func (w *jsonWriter) string(s string) error {
	w.scratch.Reset()
	if err := w.enc.Encode(s); err != nil {
		return fmt.Errorf("parser: failed to encode string: %w", err)
	}
	w.buf.Write(bytes.TrimSuffix(w.scratch.Bytes(), []byte{'\n'}))
	return nil
}
