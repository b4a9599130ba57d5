// Package parser loads OpenAPI documents into ordered trees and bundles
// their external references.
//
// A document is held as a *yaml.Node tree (go.yaml.in/yaml/v4). Mapping
// nodes keep their keys in source order, so the tree can be rewritten in
// place and written back out with the original layout. JSON input is parsed
// through the same YAML decoder after a strict JSON syntax check.
//
// # Bundling
//
// With ResolveRefs enabled, every external $ref ("common.json#/Error",
// "https://example.com/x.json") is fetched, the fragment is selected with
// JSON Pointer rules, and the result is inlined recursively. Same-document
// references ("#/components/schemas/Foo") in the root document are kept as
// written and never followed, so cyclic schemas are safe. References that
// point back at the root document are rewritten to same-document form.
//
//	p := parser.New()
//	p.ResolveRefs = true
//	result, err := p.Parse("https://example.com/specs/inference.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, err := parser.MarshalJSONIndent(result.Root, "", "  ")
//
// # Tree helpers
//
// MapGet, MapSet, MapDelete, MapKeys and friends operate on mapping nodes
// without disturbing key order. ToAny converts a tree into plain Go values
// for comparisons in tests.
//
// # Resource Limits
//
// The resolver caps nested reference expansion (MaxRefDepth), the number of
// fetched documents (MaxCachedDocuments) and the size of each document
// (MaxFileSize). Exceeding one returns an *oaserrors.ResourceLimitError.
package parser
