package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// decodeJSONTree builds a node tree from JSON text, keeping key order and
// number literals as written. data must already be valid JSON: the token
// stream does not check separators.
func decodeJSONTree(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	b := &jsonTreeBuilder{dec: dec, data: data, line: 1}

	tok, line, err := b.next()
	if err != nil {
		return nil, err
	}
	root, err := b.value(tok, line)
	if err != nil {
		return nil, err
	}
	if _, _, err := b.next(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return root, nil
}

type jsonTreeBuilder struct {
	dec  *json.Decoder
	data []byte
	off  int64 // offset up to which newlines were counted
	line int
}

// next returns the next token and the line it ends on.
func (b *jsonTreeBuilder) next() (json.Token, int, error) {
	tok, err := b.dec.Token()
	if err != nil {
		return nil, 0, err
	}
	end := min(b.dec.InputOffset(), int64(len(b.data)))
	if end > b.off {
		b.line += bytes.Count(b.data[b.off:end], []byte{'\n'})
		b.off = end
	}
	return tok, b.line, nil
}

func (b *jsonTreeBuilder) value(tok json.Token, line int) (*yaml.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return b.object(line)
		case '[':
			return b.array(line)
		}
		return nil, fmt.Errorf("unexpected %q at line %d", rune(v), line)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagString, Value: v, Line: line}, nil
	case json.Number:
		tag := TagInt
		if strings.ContainsAny(string(v), ".eE") {
			tag = TagFloat
		}
		// The token may share memory with the decoder's read buffer.
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: strings.Clone(string(v)), Line: line}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagBool, Value: strconv.FormatBool(v), Line: line}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagNull, Value: "null", Line: line}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v at line %d", tok, line)
	}
}

// object reads mapping entries up to the closing brace. A repeated key keeps
// its first position and takes the last value.
func (b *jsonTreeBuilder) object(line int) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
	seen := make(map[string]int)
	for {
		tok, keyLine, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok == json.Delim('}') {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key at line %d is not a string", keyLine)
		}
		tok, valueLine, err := b.next()
		if err != nil {
			return nil, err
		}
		value, err := b.value(tok, valueLine)
		if err != nil {
			return nil, err
		}
		if i, dup := seen[key]; dup {
			m.Content[i+1] = value
			continue
		}
		seen[key] = len(m.Content)
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: TagString, Value: key, Line: keyLine},
			value)
	}
}

func (b *jsonTreeBuilder) array(line int) (*yaml.Node, error) {
	s := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
	for {
		tok, itemLine, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok == json.Delim(']') {
			return s, nil
		}
		item, err := b.value(tok, itemLine)
		if err != nil {
			return nil, err
		}
		s.Content = append(s.Content, item)
	}
}
