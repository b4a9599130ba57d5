package fixer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/oaserrors"
	"github.com/erraggy/apimfix/parser"
)

func mustParse(t *testing.T, src string) *parser.ParseResult {
	t.Helper()
	result, err := parser.New().ParseBytes([]byte(src))
	require.NoError(t, err)
	return result
}

func mustJSON(t *testing.T, n *yaml.Node) string {
	t.Helper()
	data, err := parser.MarshalJSON(n)
	require.NoError(t, err)
	return string(data)
}

func schemaAt(root *yaml.Node, keys ...string) *yaml.Node {
	n := root
	for _, k := range keys {
		n = parser.MapGet(n, k)
	}
	return n
}

func TestFixDiscriminators(t *testing.T) {
	src := `{
  "components": {
    "schemas": {
      "Event": {
        "discriminator": {"propertyName": "kind"},
        "oneOf": [
          {"properties": {}},
          {"required": ["id"]},
          {"required": ["kind", "id"]},
          {"$ref": "#/components/schemas/Other"},
          "not-a-schema",
          {"required": "kind"}
        ],
        "anyOf": [{"required": []}],
        "allOf": [{"type": "object"}]
      }
    }
  }
}`
	var out bytes.Buffer
	f := New()
	f.EnabledFixes = []FixType{FixTypeDiscriminatorRequired}
	f.Out = &out

	result, err := f.FixParsed(*mustParse(t, src))
	require.NoError(t, err)

	event := schemaAt(result.Root, "components", "schemas", "Event")
	assert.Equal(t,
		`[{"properties":{},"required":["kind"]},{"required":["id","kind"]},{"required":["kind","id"]},{"$ref":"#/components/schemas/Other","required":["kind"]},"not-a-schema",{"required":"kind"}]`,
		mustJSON(t, parser.MapGet(event, "oneOf")))
	assert.Equal(t, `[{"required":["kind"]}]`, mustJSON(t, parser.MapGet(event, "anyOf")))
	assert.Equal(t, `[{"type":"object","required":["kind"]}]`, mustJSON(t, parser.MapGet(event, "allOf")))

	require.Equal(t, 5, result.FixCount)
	assert.Equal(t, "components.schemas.Event.oneOf[0]", result.Fixes[0].Path)
	assert.Nil(t, result.Fixes[0].Before)
	assert.Equal(t, []string{"kind"}, result.Fixes[0].After)
	assert.Equal(t, "components.schemas.Event.oneOf[1]", result.Fixes[1].Path)
	assert.Equal(t, []string{"id"}, result.Fixes[1].Before)
	assert.Equal(t, []string{"id", "kind"}, result.Fixes[1].After)
	assert.Equal(t, "components.schemas.Event.anyOf[0]", result.Fixes[3].Path)
	assert.Equal(t, "components.schemas.Event.allOf[0]", result.Fixes[4].Path)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Fixing discriminator for property: 'kind'", strings.TrimSpace(lines[0]))
	assert.Equal(t, "Added 'kind' to required list for a sub-schema.", strings.TrimSpace(lines[1]))
}

func TestFixDiscriminators_Idempotent(t *testing.T) {
	src := `{"A": {"discriminator": {"propertyName": "type"}, "oneOf": [{"required": ["x"]}, {}]}}`

	first, err := New().FixParsed(*mustParse(t, src))
	require.NoError(t, err)
	assert.Equal(t, 2, first.FixCount)

	second, err := New().FixParsed(parser.ParseResult{Root: first.Root})
	require.NoError(t, err)
	assert.Equal(t, 0, second.FixCount)
	assert.Equal(t, mustJSON(t, first.Root), mustJSON(t, second.Root))
}

func TestFixDiscriminators_Skipped(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no propertyName", `{"A": {"discriminator": {"mapping": {}}, "oneOf": [{}]}}`},
		{"propertyName not a string", `{"A": {"discriminator": {"propertyName": 5}, "oneOf": [{}]}}`},
		{"discriminator not a mapping", `{"A": {"discriminator": "kind", "oneOf": [{}]}}`},
		{"no polymorphism", `{"A": {"discriminator": {"propertyName": "kind"}, "properties": {"kind": {}}}}`},
		{"oneOf not a sequence", `{"A": {"discriminator": {"propertyName": "kind"}, "oneOf": {"x": {}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := mustParse(t, tt.src)
			before := mustJSON(t, parsed.Root)

			result, err := New().FixParsed(*parsed)
			require.NoError(t, err)
			assert.Equal(t, 0, result.FixCount)
			assert.Equal(t, before, mustJSON(t, result.Root))
		})
	}
}

func TestFixDiscriminators_Nested(t *testing.T) {
	// A discriminator inside an alternative of another discriminator is found too.
	src := `{"Outer": {"discriminator": {"propertyName": "a"}, "oneOf": [
		{"discriminator": {"propertyName": "b"}, "anyOf": [{}]}
	]}}`

	result, err := New().FixParsed(*mustParse(t, src))
	require.NoError(t, err)

	assert.Equal(t,
		`{"Outer":{"discriminator":{"propertyName":"a"},"oneOf":[{"discriminator":{"propertyName":"b"},"anyOf":[{"required":["b"]}],"required":["a"]}]}}`,
		mustJSON(t, result.Root))
	assert.Equal(t, 2, result.FixCount)
}

func TestFixDescriptions(t *testing.T) {
	src := `{
  "info": {"description": "plain text"},
  "components": {
    "schemas": {
      "A": {
        "description": {"zeta": 1, "alpha": {"nested": [true, null]}},
        "properties": {"description": {"type": "string", "description": "a property named description"}}
      }
    }
  },
  "list": [{"description": {"note": "x"}}]
}`
	var out bytes.Buffer
	f := New()
	f.EnabledFixes = []FixType{FixTypeDescriptionObject}
	f.Out = &out

	result, err := f.FixParsed(*mustParse(t, src))
	require.NoError(t, err)

	desc, ok := parser.StringValue(schemaAt(result.Root, "components", "schemas", "A", "description"))
	require.True(t, ok)
	assert.Equal(t, "{\n  \"zeta\": 1,\n  \"alpha\": {\n    \"nested\": [\n      true,\n      null\n    ]\n  }\n}", desc)

	note, ok := parser.StringValue(parser.MapGet(parser.MapGet(result.Root, "list").Content[0], "description"))
	require.True(t, ok)
	assert.Equal(t, "{\n  \"note\": \"x\"\n}", note)

	plain, _ := parser.StringValue(schemaAt(result.Root, "info", "description"))
	assert.Equal(t, "plain text", plain)

	// A property named "description" is an object too, so it is converted as well.
	_, isString := parser.StringValue(schemaAt(result.Root, "components", "schemas", "A", "properties", "description"))
	assert.True(t, isString)

	require.Equal(t, 3, result.FixCount)
	assert.Equal(t, "components.schemas.A.description", result.Fixes[0].Path)
	assert.Equal(t, "components.schemas.A.properties.description", result.Fixes[1].Path)
	assert.Equal(t, "list[0].description", result.Fixes[2].Path)
	assert.Equal(t, map[string]any{"note": "x"}, result.Fixes[2].Before)
	assert.Equal(t, 3, strings.Count(out.String(), "Fixing complex description object..."))
}

func TestFixDescriptions_TextKeptVerbatim(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "markup and ampersand",
			src:  `{"description": {"summary": "Use <b>stop</b> & <i>max_tokens</i> > 0"}}`,
			want: "{\n  \"summary\": \"Use <b>stop</b> & <i>max_tokens</i> > 0\"\n}",
		},
		{
			name: "non-ASCII text",
			src:  `{"description": {"note": "modèle ✓ 模型"}}`,
			want: "{\n  \"note\": \"modèle ✓ 模型\"\n}",
		},
		{
			name: "escaped surrogate pair",
			src:  `{"description": {"emoji": "\ud83d\ude00"}}`,
			want: "{\n  \"emoji\": \"😀\"\n}",
		},
		{
			name: "quotes and newlines stay escaped",
			src:  `{"description": {"text": "say \"hi\"\nthen go"}}`,
			want: "{\n  \"text\": \"say \\\"hi\\\"\\nthen go\"\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			f.EnabledFixes = []FixType{FixTypeDescriptionObject}
			result, err := f.FixParsed(*mustParse(t, tt.src))
			require.NoError(t, err)

			desc, ok := parser.StringValue(parser.MapGet(result.Root, "description"))
			require.True(t, ok)
			assert.Equal(t, tt.want, desc)
			assert.NotContains(t, desc, `\u00`)
			require.Len(t, result.Fixes, 1)
			assert.Equal(t, tt.want, result.Fixes[0].After)
		})
	}
}

func TestFixParsed_DoesNotModifyInput(t *testing.T) {
	parsed := mustParse(t, `{"A": {"description": {"k": "v"}, "discriminator": {"propertyName": "t"}, "oneOf": [{}]}}`)
	before := mustJSON(t, parsed.Root)

	result, err := New().FixParsed(*parsed)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FixCount)
	assert.Equal(t, before, mustJSON(t, parsed.Root))
}

func TestFixParsed_MutableInput(t *testing.T) {
	parsed := mustParse(t, `{"description": {"k": "v"}}`)

	f := New()
	f.MutableInput = true
	result, err := f.FixParsed(*parsed)
	require.NoError(t, err)
	assert.Same(t, parsed.Root, result.Root)
	assert.Equal(t, `{"description":"{\n  \"k\": \"v\"\n}"}`, mustJSON(t, parsed.Root))
}

func TestFixParsed_NilRoot(t *testing.T) {
	_, err := New().FixParsed(parser.ParseResult{})
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
}

func TestFixWithOptions(t *testing.T) {
	parsed := mustParse(t, `{"A": {"description": {"k": "v"}, "discriminator": {"propertyName": "t"}, "oneOf": [{}]}}`)

	t.Run("all fixes by default", func(t *testing.T) {
		result, err := FixWithOptions(WithParsed(*parsed))
		require.NoError(t, err)
		assert.True(t, result.HasFixes())
		assert.Equal(t, 1, result.CountByType(FixTypeDiscriminatorRequired))
		assert.Equal(t, 1, result.CountByType(FixTypeDescriptionObject))
	})

	t.Run("selected fixes", func(t *testing.T) {
		result, err := FixWithOptions(WithParsed(*parsed), WithEnabledFixes(FixTypeDescriptionObject))
		require.NoError(t, err)
		assert.Equal(t, 0, result.CountByType(FixTypeDiscriminatorRequired))
		assert.Equal(t, 1, result.CountByType(FixTypeDescriptionObject))
	})

	t.Run("unknown fix type", func(t *testing.T) {
		_, err := FixWithOptions(WithParsed(*parsed), WithEnabledFixes("prune"))
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})

	t.Run("no input", func(t *testing.T) {
		_, err := FixWithOptions()
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})

	t.Run("two inputs", func(t *testing.T) {
		_, err := FixWithOptions(WithParsed(*parsed), WithFilePath("x.json"))
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := FixWithOptions(WithFilePath(""))
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})
}
