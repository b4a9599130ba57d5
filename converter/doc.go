// Package converter rewrites an OpenAPI 3.1 document into the 3.0 dialect
// accepted by the Azure API Management importer.
//
// Two steps are applied to the document tree:
//
//   - The top-level openapi field is set to the target version ("3.0.1"
//     by default). This step can be switched off, leaving the field as it is.
//   - The keywords $recursiveAnchor, $recursiveRef and propertyNames are
//     deleted from every mapping at any depth. A mapping's keys are removed
//     before its children are visited, so nothing under a removed key is
//     reported.
//
// # Quick Start
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithParsed(*parseResult),
//		converter.WithOutput(os.Stdout),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("removed %d keywords\n", result.RemovedKeywords)
//
// Keep the version as it is:
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithParsed(*parseResult),
//		converter.WithDowngrade(false),
//	)
//
// # Conversion Issues
//
// Every rewrite is recorded as a ConversionIssue: an Info issue for the
// version change and a Warning for each mapping that lost keywords.
package converter
