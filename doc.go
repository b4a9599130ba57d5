// Package apimfix turns a multi-file OpenAPI 3.1 description into a single,
// self-contained document that the Azure API Management importer accepts.
//
// The default input is the Azure OpenAI inference specification, which is
// published as OpenAPI 3.1.0 with external file references and JSON Schema
// 2020-12 keywords. APIM expects one bundled OpenAPI 3.0 file, so the
// document goes through a fixed pipeline:
//
//  1. Bundling: every external $ref is fetched and inlined; same-document
//     ("#/...") references are kept as they are.
//  2. Discriminator repair: the discriminator property is added to the
//     required list of every oneOf/anyOf/allOf alternative.
//  3. Description normalization: object-valued description fields become
//     indented JSON text.
//  4. Version rewrite: the openapi field is set to 3.0.1 (configurable).
//  5. Keyword stripping: $recursiveAnchor, $recursiveRef and propertyNames
//     are removed everywhere.
//
// # Packages
//
//   - parser: document tree (yaml.Node), parsing, ordered JSON output, $ref bundling
//   - fixer: discriminator repair and description normalization
//   - converter: version rewrite and unsupported keyword stripping
//   - normalizer: runs the whole pipeline and reports statistics
//   - oaserrors: error types for transport, parse, reference and limit failures
//
// # Quick Start
//
//	result, err := normalizer.NormalizeWithOptions(
//		normalizer.WithURL("https://example.com/specs/inference.json"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = os.WriteFile("inference_fixed.json", result.Data, 0o600)
//
// The command-line tool lives in cmd/apimfix:
//
//	apimfix fix --output inference_fixed.json
package apimfix
