package parser

import (
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/internal/httputil"
)

// DocumentStats contains counts describing an OpenAPI document
type DocumentStats struct {
	PathCount      int // Number of paths defined
	OperationCount int // Total number of operations across all paths
	SchemaCount    int // Number of component schemas (or OAS 2 definitions)
}

// GetDocumentStats returns statistics for a document tree.
// Trees that are not OpenAPI documents yield zero counts.
func GetDocumentStats(root *yaml.Node) DocumentStats {
	stats := DocumentStats{}

	paths := MapGet(root, "paths")
	for _, key := range MapKeys(paths) {
		stats.PathCount++
		item := MapGet(paths, key)
		for _, method := range httputil.OperationMethods {
			if IsMapping(MapGet(item, method)) {
				stats.OperationCount++
			}
		}
	}

	schemas := MapGet(MapGet(root, "components"), "schemas")
	if schemas == nil {
		schemas = MapGet(root, "definitions")
	}
	stats.SchemaCount = len(MapKeys(schemas))

	return stats
}
