package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecYAML = `openapi: "3.0.0"
info:
  title: Pet Store
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: OK
    post:
      operationId: createPet
      responses:
        "201":
          description: Created
  /pets/{id}:
    get:
      operationId: getPet
      responses:
        "200":
          description: OK
`

func TestParseTool_Summary(t *testing.T) {
	_, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, parseInput{
		Spec: specInput{Content: testSpecYAML},
	})
	require.NoError(t, err)

	assert.Equal(t, "3.0.0", output.Version)
	assert.Equal(t, "Pet Store", output.Title)
	assert.Equal(t, "yaml", output.Format)
	assert.Equal(t, 2, output.PathCount)
	assert.Equal(t, 3, output.OperationCount)
	assert.Equal(t, 0, output.SchemaCount)
	assert.Equal(t, 0, output.DiscriminatorCount)
	assert.Empty(t, output.UnsupportedKeywords)
}

func TestParseTool_Fixture(t *testing.T) {
	_, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, parseInput{
		Spec: specInput{File: fixtureFile(t)},
	})
	require.NoError(t, err)

	assert.Equal(t, "3.1.0", output.Version)
	assert.Equal(t, "Azure OpenAI Service API", output.Title)
	assert.Equal(t, "json", output.Format)
	assert.Equal(t, 4, output.SchemaCount)
	assert.Equal(t, 3, output.LocalRefs)
	assert.Equal(t, 1, output.ExternalRefs)
	assert.Equal(t, 1, output.DiscriminatorCount)
	assert.Equal(t, 1, output.ObjectDescriptions)
	assert.Equal(t, []string{"$recursiveAnchor", "propertyNames"}, output.UnsupportedKeywords)
}

func TestParseTool_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec specInput
	}{
		{"invalid yaml", specInput{Content: "not valid yaml: ["}},
		{"no source", specInput{}},
		{"two sources", specInput{Content: "{}", File: "inference.json"}},
		{"ftp url", specInput{URL: "ftp://example.com/inference.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output, err := handleParse(context.Background(), &mcp.CallToolRequest{}, parseInput{Spec: tt.spec})
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			assert.Empty(t, output.Version)
		})
	}
}
