package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apimfix/parser"
)

type bundleInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The OpenAPI document to bundle"`
	Format          string    `json:"format,omitempty"           jsonschema:"Output format: json (default) or yaml"`
	IncludeDocument bool      `json:"include_document,omitempty" jsonschema:"Include the bundled document in the output"`
	Output          string    `json:"output,omitempty"           jsonschema:"File path to write the bundled document to"`
}

type bundleOutput struct {
	Version       string `json:"version"`
	Format        string `json:"format"`
	ExternalRefs  int    `json:"external_refs"`
	InternalRefs  int    `json:"internal_refs"`
	PreservedRefs int    `json:"preserved_refs"`
	RewrittenRefs int    `json:"rewritten_refs"`
	Documents     int    `json:"documents"`
	Size          int    `json:"size"`
	WrittenTo     string `json:"written_to,omitempty"`
	Document      string `json:"document,omitempty"`
}

func errInvalidFormat(format string) error {
	return fmt.Errorf("invalid format %q; valid values: json, yaml", format)
}

func handleBundle(_ context.Context, _ *mcp.CallToolRequest, input bundleInput) (*mcp.CallToolResult, bundleOutput, error) {
	format := parser.SourceFormatJSON
	switch input.Format {
	case "", "json":
	case "yaml":
		format = parser.SourceFormatYAML
	default:
		return errResult(errInvalidFormat(input.Format)), bundleOutput{}, nil
	}

	result, err := input.Spec.parse(true)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	var data []byte
	if format == parser.SourceFormatYAML {
		data, err = parser.MarshalYAML(result.Root)
	} else {
		data, err = parser.MarshalJSONIndent(result.Root, "", "  ")
	}
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	output := bundleOutput{
		Version:       result.Version,
		Format:        string(format),
		ExternalRefs:  result.Bundle.ExternalRefs,
		InternalRefs:  result.Bundle.InternalRefs,
		PreservedRefs: result.Bundle.PreservedRefs,
		RewrittenRefs: result.Bundle.RewrittenRefs,
		Documents:     result.Bundle.Documents,
		Size:          len(data),
	}
	if input.Output != "" {
		written, err := writeOutput(input.Output, data)
		if err != nil {
			return errResult(err), bundleOutput{}, nil
		}
		output.WrittenTo = written
	}
	if input.IncludeDocument {
		output.Document = string(data)
	}
	return nil, output, nil
}
