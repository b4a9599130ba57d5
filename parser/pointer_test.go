package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apimfix/oaserrors"
)

func TestResolvePointer(t *testing.T) {
	doc := mustDecode(t, `{
		"components": {"schemas": {"a/b": {"type": "string"}, "t~n": {"type": "integer"}}},
		"list": [{"x": 1}, {"x": 2}],
		"with space": {"ok": true}
	}`)

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"root", "", `{"components":{"schemas":{"a/b":{"type":"string"},"t~n":{"type":"integer"}}},"list":[{"x":1},{"x":2}],"with space":{"ok":true}}`},
		{"escaped slash", "/components/schemas/a~1b", `{"type":"string"}`},
		{"escaped tilde", "/components/schemas/t~0n", `{"type":"integer"}`},
		{"sequence index", "/list/1", `{"x":2}`},
		{"percent encoded", "/with%20space", `{"ok":true}`},
		{"scalar target", "/list/0/x", `1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ResolvePointer(doc, tt.fragment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mustJSON(t, node))
		})
	}
}

func TestResolvePointer_Errors(t *testing.T) {
	doc := mustDecode(t, `{"a": {"b": 1}, "list": [1]}`)

	for _, fragment := range []string{"/missing", "/a/b/c", "/list/5", "/list/-1", "/list/x", "no-slash"} {
		t.Run(fragment, func(t *testing.T) {
			_, err := ResolvePointer(doc, fragment)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrReference))
			assert.False(t, errors.Is(err, oaserrors.ErrCircularReference))
		})
	}
}
