// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the apimfix pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apimfix"
)

const serverInstructions = `apimfix MCP server: prepares OpenAPI documents for import into Azure API Management.

Tools:
- normalize: bundle external $refs, repair discriminators, stringify object descriptions, downgrade to OpenAPI 3.0.x and strip unsupported JSON Schema keywords
- bundle: inline external $refs only, keeping same-document $refs
- parse: summarize a document and count what normalize would change

Configuration: defaults come from APIMFIX_* environment variables set in your MCP client config.
- APIMFIX_DOWNGRADE (default: true): rewrite the openapi field
- APIMFIX_TARGET_VERSION (default: 3.0.1): version written when downgrading
- APIMFIX_HTTP_TIMEOUT (default: 30s): timeout per fetched document
- APIMFIX_MAX_FILE_SIZE (default: 10MiB): size limit per fetched document
- APIMFIX_ALLOW_PRIVATE_IPS (default: false): allow fetching from private and loopback addresses

Each call fetches its documents again; nothing is cached between calls.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "apimfix", Version: apimfix.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize",
		Description: "Normalize an OpenAPI document for Azure API Management import. Inlines external $refs (same-document $refs are kept), adds the discriminator property to the required list of every oneOf/anyOf/allOf alternative, turns object-valued descriptions into JSON text, sets openapi to 3.0.1 unless downgrade=false, and removes $recursiveAnchor, $recursiveRef and propertyNames. Use include_document or output to get the result. Use offset/limit to page through fixes and issues.",
	}, handleNormalize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bundle",
		Description: "Bundle an OpenAPI document: inline every external $ref, keep same-document $refs as written, and report reference statistics. No other changes are made.",
	}, handleBundle)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse an OpenAPI document without fetching external references. Returns version, title, path/operation/schema counts, local and external $ref counts, and how many discriminators, object descriptions and unsupported keywords normalize would touch.",
	}, handleParse)
}

// paginate returns the page of items starting at offset. limit falls back
// to cfg.DefaultLimit when not positive and is capped at cfg.MaxLimit.
// An offset outside items yields nil.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	limit = min(limit, cfg.MaxLimit, len(items)-offset)
	return items[offset : offset+limit]
}

// makeSlice keeps empty lists nil so omitempty drops them from the output.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// localPath matches absolute paths under the usual filesystem roots.
var localPath = regexp.MustCompile(`/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[\w./-]*`)

// sanitizeError renders err with local paths masked as "<path>".
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return localPath.ReplaceAllLiteralString(err.Error(), "<path>")
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
