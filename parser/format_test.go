package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apimfix/oaserrors"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{-5, "-5 B"},
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{10 * 1024 * 1024, "10.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.size))
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, SourceFormatJSON, detectFormatFromPath("inference.json"))
	assert.Equal(t, SourceFormatYAML, detectFormatFromPath("api.YML"))
	assert.Equal(t, SourceFormatJSON, detectFormatFromPath("https://example.com/a/inference.json?raw=1"))
	assert.Equal(t, SourceFormatUnknown, detectFormatFromPath("spec"))

	assert.Equal(t, SourceFormatJSON, detectFormatFromContent([]byte("  \n{\"a\":1}")))
	assert.Equal(t, SourceFormatYAML, detectFormatFromContent([]byte("openapi: 3.1.0")))
	assert.Equal(t, SourceFormatUnknown, detectFormatFromContent([]byte(" \n ")))
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		base string
		ref  string
		want string
	}{
		{"https://example.com/specs/root.json", "common.json", "https://example.com/specs/common.json"},
		{"https://example.com/specs/root.json", "./examples/a.json", "https://example.com/specs/examples/a.json"},
		{"https://example.com/specs/root.json", "../x.json", "https://example.com/x.json"},
		{"https://example.com/specs/", "common.json", "https://example.com/specs/common.json"},
		{"/tmp/specs/root.json", "common.json", "/tmp/specs/common.json"},
		{"/tmp/specs/root.json", "../other/x.yaml", "/tmp/other/x.yaml"},
		{"/tmp/specs/root.json", "/abs/x.json", "/abs/x.json"},
		{"/tmp/specs/root.json", "https://h.example/x.json", "https://h.example/x.json"},
		{"", "./common.json", "common.json"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.ref, func(t *testing.T) {
			got, err := resolveLocation(tt.base, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\nef")

	line, col := lineColumn(data, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = lineColumn(data, 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	line, _ = lineColumn(data, 100)
	assert.Equal(t, 3, line)
}

func TestDecodeNode_Errors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, _, err := decodeNode([]byte("{\n  \"a\": 1,\n  \"b\": \n}"), "inference_downloaded.json")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrParse))

		var pe *oaserrors.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "inference_downloaded.json", pe.Path)
		assert.Equal(t, "invalid JSON", pe.Message)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, _, err := decodeNode([]byte("a: 1\n b: [\n"), "api.yaml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrParse))
	})

	t.Run("empty document", func(t *testing.T) {
		_, _, err := decodeNode([]byte("   "), "")
		assert.True(t, errors.Is(err, oaserrors.ErrParse))
	})
}

func TestDecodeNode_JSON(t *testing.T) {
	t.Run("surrogate pair escapes", func(t *testing.T) {
		root, format, err := decodeNode([]byte(`{"title": "smile \ud83d\ude00 done"}`), "inference.json")
		require.NoError(t, err)
		assert.Equal(t, SourceFormatJSON, format)
		title, ok := StringValue(MapGet(root, "title"))
		require.True(t, ok)
		assert.Equal(t, "smile 😀 done", title)
	})

	t.Run("json content behind a yaml extension", func(t *testing.T) {
		root, format, err := decodeNode([]byte(`{"x": "\ud83d\udc4d"}`), "api.yaml")
		require.NoError(t, err)
		assert.Equal(t, SourceFormatYAML, format)
		assert.Equal(t, `{"x":"👍"}`, mustJSON(t, root))
	})

	t.Run("scalar tags", func(t *testing.T) {
		root, _, err := decodeNode([]byte(`{"i": 7, "f": 0.5, "e": 1E3, "b": true, "n": null, "s": "7"}`), "")
		require.NoError(t, err)
		tags := make([]string, 0, len(root.Content)/2)
		for i := 1; i < len(root.Content); i += 2 {
			tags = append(tags, root.Content[i].ShortTag())
		}
		assert.Equal(t, []string{TagInt, TagFloat, TagFloat, TagBool, TagNull, TagString}, tags)
	})

	t.Run("duplicate key keeps first position and last value", func(t *testing.T) {
		root, _, err := decodeNode([]byte(`{"a": 1, "b": 2, "a": 3}`), "")
		require.NoError(t, err)
		assert.Equal(t, `{"a":3,"b":2}`, mustJSON(t, root))
	})

	t.Run("line numbers", func(t *testing.T) {
		root, _, err := decodeNode([]byte("{\n  \"openapi\": \"3.1.0\",\n  \"info\": {\n    \"title\": \"T\"\n  }\n}"), "")
		require.NoError(t, err)
		assert.Equal(t, 1, root.Line)
		assert.Equal(t, 2, MapGet(root, "openapi").Line)
		assert.Equal(t, 4, MapGet(MapGet(root, "info"), "title").Line)
	})
}
