package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleTool(t *testing.T) {
	_, output, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, bundleInput{
		Spec:            specInput{File: fixtureFile(t)},
		IncludeDocument: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "3.1.0", output.Version)
	assert.Equal(t, "json", output.Format)
	assert.Equal(t, 1, output.ExternalRefs)
	assert.Equal(t, 1, output.InternalRefs)
	assert.Equal(t, 3, output.PreservedRefs)
	assert.Equal(t, 1, output.Documents)
	assert.Equal(t, len(output.Document), output.Size)
	assert.NotContains(t, output.Document, "common.json")
	assert.Contains(t, output.Document, `"$ref": "#/components/schemas/userMessage"`)
	// The bundle step leaves the other rewrites to normalize.
	assert.Contains(t, output.Document, "propertyNames")
}

func TestBundleTool_YAML(t *testing.T) {
	_, output, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, bundleInput{
		Spec:            specInput{Content: `{"openapi": "3.1.0", "info": {"title": "x"}}`},
		Format:          "yaml",
		IncludeDocument: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "yaml", output.Format)
	assert.Contains(t, output.Document, "title: x")
}

func TestBundleTool_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bundled.json")
	_, output, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, bundleInput{
		Spec:   specInput{File: fixtureFile(t)},
		Output: out,
	})
	require.NoError(t, err)
	assert.Equal(t, out, output.WrittenTo)
	assert.Empty(t, output.Document)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, data, output.Size)
}

func TestBundleTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input bundleInput
	}{
		{"bad format", bundleInput{Spec: specInput{Content: "{}"}, Format: "xml"}},
		{"no spec", bundleInput{}},
		{"missing ref target", bundleInput{Spec: specInput{Content: `{"a": {"$ref": "missing.json#/x"}}`, BaseURL: "/nonexistent/inference.json"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleBundle(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

func TestErrInvalidFormat(t *testing.T) {
	assert.EqualError(t, errInvalidFormat("xml"), `invalid format "xml"; valid values: json, yaml`)
}
