// Package fixer repairs schema constructs that the Azure API Management
// importer rejects.
//
// Two fixes are available, applied in this order:
//
//   - FixTypeDiscriminatorRequired: for every schema whose discriminator has
//     a propertyName, each alternative under oneOf, anyOf and allOf gets that
//     property in its required list. A missing required list is created and
//     the property is never added twice.
//   - FixTypeDescriptionObject: a description whose value is an object is
//     replaced by the two-space indented JSON text of that object, keeping
//     key order.
//
// Both fixes walk the whole tree and process every match. They never fail:
// constructs they cannot repair (a non-object alternative, a required value
// that is not a list) are skipped.
//
// # Quick Start
//
//	result, err := fixer.FixWithOptions(
//		fixer.WithParsed(*parseResult),
//		fixer.WithOutput(os.Stdout),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Applied %d fixes\n", result.FixCount)
//
// Each applied fix is recorded as a Fix with the dot/bracket path of the
// changed location, e.g. "components.schemas.Event.oneOf[1]".
package fixer
