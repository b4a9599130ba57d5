// Package normalizer turns a multi-document OpenAPI 3.1 description into a
// single JSON document that the Azure API Management importer accepts.
//
// A run goes through these stages, each operating on the tree left by the
// previous one:
//
//  1. load the root document (file path, http(s) URL or bytes)
//  2. bundle: inline external references, keep same-document ones
//  3. repair discriminators (see package fixer)
//  4. turn object-valued descriptions into JSON text (see package fixer)
//  5. rewrite the openapi version, unless disabled (see package converter)
//  6. strip JSON Schema keywords the 3.0 dialect does not know
//  7. serialize as 2-space indented JSON, keeping key order
//
// Nothing is written to disk. A fetch or parse failure ends the run; the
// repair stages never fail.
//
// # Quick Start
//
//	result, err := normalizer.NormalizeWithOptions(
//		normalizer.WithURL("https://example.com/specs/inference.json"),
//		normalizer.WithOutput(os.Stdout),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("inference_fixed.json", result.Data, 0o644)
//
// Set WithDowngrade(false) for APIM instances that import OpenAPI 3.1.
package normalizer
