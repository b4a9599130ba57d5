package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apimfix/fixer"
	"github.com/erraggy/apimfix/internal/fileutil"
	"github.com/erraggy/apimfix/internal/pathutil"
	"github.com/erraggy/apimfix/normalizer"
)

type normalizeInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The OpenAPI document to normalize"`
	Downgrade       *bool     `json:"downgrade,omitempty"        jsonschema:"Rewrite the openapi field to target_version (default from APIMFIX_DOWNGRADE, true)"`
	TargetVersion   string    `json:"target_version,omitempty"   jsonschema:"3.0.x version written when downgrading (default from APIMFIX_TARGET_VERSION, 3.0.1)"`
	Fixes           []string  `json:"fixes,omitempty"            jsonschema:"Repairs to apply: discriminator-required, description-object. Default: all"`
	IncludeDocument bool      `json:"include_document,omitempty" jsonschema:"Include the normalized document in the output"`
	Output          string    `json:"output,omitempty"           jsonschema:"File path to write the normalized document to"`
	Offset          int       `json:"offset,omitempty"           jsonschema:"Skip the first N fixes and issues (for pagination)"`
	Limit           int       `json:"limit,omitempty"            jsonschema:"Maximum number of fixes and issues to return (default 100)"`
}

type fixApplied struct {
	Type        string `json:"type"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

type issueReported struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	Context  string `json:"context,omitempty"`
}

type normalizeOutput struct {
	SourceVersion   string          `json:"source_version"`
	TargetVersion   string          `json:"target_version"`
	FixCount        int             `json:"fix_count"`
	Fixes           []fixApplied    `json:"fixes,omitempty"`
	IssueCount      int             `json:"issue_count"`
	Issues          []issueReported `json:"issues,omitempty"`
	RemovedKeywords int             `json:"removed_keywords"`
	ExternalRefs    int             `json:"external_refs"`
	PreservedRefs   int             `json:"preserved_refs"`
	Documents       int             `json:"documents"`
	PathCount       int             `json:"path_count"`
	OperationCount  int             `json:"operation_count"`
	SchemaCount     int             `json:"schema_count"`
	InputSize       int64           `json:"input_size"`
	OutputSize      int64           `json:"output_size"`
	WrittenTo       string          `json:"written_to,omitempty"`
	Document        string          `json:"document,omitempty"`
}

func handleNormalize(_ context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	opts, err := buildNormalizerOptions(input)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	result, err := normalizer.NormalizeWithOptions(opts...)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	output := normalizeOutput{
		SourceVersion:   result.SourceVersion,
		TargetVersion:   result.TargetVersion,
		FixCount:        len(result.Fixes),
		IssueCount:      len(result.Issues),
		RemovedKeywords: result.RemovedKeywords,
		ExternalRefs:    result.Bundle.ExternalRefs,
		PreservedRefs:   result.Bundle.PreservedRefs,
		Documents:       result.Bundle.Documents,
		PathCount:       result.Stats.PathCount,
		OperationCount:  result.Stats.OperationCount,
		SchemaCount:     result.Stats.SchemaCount,
		InputSize:       result.InputSize,
		OutputSize:      result.OutputSize,
	}

	fixes := makeSlice[fixApplied](len(result.Fixes))
	for _, f := range result.Fixes {
		fixes = append(fixes, fixApplied{Type: string(f.Type), Path: f.Path, Description: f.Description})
	}
	output.Fixes = paginate(fixes, input.Offset, input.Limit)

	issues := makeSlice[issueReported](len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, issueReported{
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Message:  issue.Message,
			Context:  issue.Context,
		})
	}
	output.Issues = paginate(issues, input.Offset, input.Limit)

	if input.Output != "" {
		written, err := writeOutput(input.Output, result.Data)
		if err != nil {
			return errResult(err), normalizeOutput{}, nil
		}
		output.WrittenTo = written
	}
	if input.IncludeDocument {
		output.Document = string(result.Data)
	}

	return nil, output, nil
}

// buildNormalizerOptions translates the MCP input into normalizer options.
// Unset pipeline settings take the server configuration defaults.
func buildNormalizerOptions(input normalizeInput) ([]normalizer.Option, error) {
	opts, err := input.Spec.normalizerOptions()
	if err != nil {
		return nil, err
	}

	downgrade := cfg.Downgrade
	if input.Downgrade != nil {
		downgrade = *input.Downgrade
	}
	target := cfg.TargetVersion
	if input.TargetVersion != "" {
		target = input.TargetVersion
	}
	opts = append(opts, normalizer.WithDowngrade(downgrade), normalizer.WithTargetVersion(target))

	if len(input.Fixes) > 0 {
		fixes := make([]fixer.FixType, 0, len(input.Fixes))
		for _, name := range input.Fixes {
			fixes = append(fixes, fixer.FixType(name))
		}
		opts = append(opts, normalizer.WithEnabledFixes(fixes...))
	}
	return opts, nil
}

// writeOutput writes data to the cleaned absolute form of path and returns it.
// Symlinks and directories are refused.
func writeOutput(path string, data []byte) (string, error) {
	clean, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	if err := fileutil.WriteFileAtomic(clean, data, fileutil.OwnerReadWrite); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return clean, nil
}
