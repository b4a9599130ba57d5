package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/converter"
	"github.com/erraggy/apimfix/parser"
)

type parseInput struct {
	Spec specInput `json:"spec" jsonschema:"The OpenAPI document to inspect"`
}

type parseOutput struct {
	Version             string   `json:"version"`
	Title               string   `json:"title"`
	Format              string   `json:"format"`
	PathCount           int      `json:"path_count"`
	OperationCount      int      `json:"operation_count"`
	SchemaCount         int      `json:"schema_count"`
	LocalRefs           int      `json:"local_refs"`
	ExternalRefs        int      `json:"external_refs"`
	DiscriminatorCount  int      `json:"discriminator_count"`
	ObjectDescriptions  int      `json:"object_descriptions"`
	UnsupportedKeywords []string `json:"unsupported_keywords,omitempty"`
}

// handleParse reports what the normalize tool would have to do, without
// fetching external documents.
func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	result, err := input.Spec.parse(false)
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	output := parseOutput{
		Version:        result.Version,
		Format:         string(result.SourceFormat),
		PathCount:      result.Stats.PathCount,
		OperationCount: result.Stats.OperationCount,
		SchemaCount:    result.Stats.SchemaCount,
	}
	if title, ok := parser.StringValue(parser.MapGet(parser.MapGet(result.Root, "info"), "title")); ok {
		output.Title = title
	}

	seen := make(map[string]bool)
	survey(result.Root, &output, seen)
	for _, k := range converter.DefaultUnsupportedKeywords {
		if seen[k] {
			output.UnsupportedKeywords = append(output.UnsupportedKeywords, k)
		}
	}
	return nil, output, nil
}

// survey counts the constructs the pipeline rewrites.
func survey(n *yaml.Node, out *parseOutput, seen map[string]bool) {
	n = parser.Resolve(n)
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.MappingNode:
		if ref, ok := parser.RefValue(n); ok {
			if parser.IsLocalRef(n) {
				out.LocalRefs++
			} else if ref != "" {
				out.ExternalRefs++
			}
		}
		if prop, ok := parser.StringValue(parser.MapGet(parser.MapGet(n, "discriminator"), "propertyName")); ok && prop != "" {
			out.DiscriminatorCount++
		}
		if parser.IsMapping(parser.MapGet(n, "description")) {
			out.ObjectDescriptions++
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			seen[n.Content[i].Value] = true
			survey(n.Content[i+1], out, seen)
		}
	case yaml.SequenceNode:
		for _, child := range n.Content {
			survey(child, out, seen)
		}
	}
}
