package converter

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimfix/parser"
)

// rewriteVersion sets the top-level openapi field to the target version,
// adding the field when it is missing.
func (c *Converter) rewriteVersion(root *yaml.Node, result *ConversionResult) {
	target := c.targetVersion()
	previous, hadVersion := parser.StringValue(parser.MapGet(root, "openapi"))

	parser.MapSet(root, "openapi", parser.NewString(target))
	result.TargetVersion = target
	result.VersionChanged = !hadVersion || previous != target

	context := "field was absent"
	if hadVersion {
		context = "was " + previous
	}
	c.addIssue(result, ConversionIssue{
		Path:     "openapi",
		Field:    "openapi",
		Message:  fmt.Sprintf("openapi version set to %s", target),
		Severity: SeverityInfo,
		Value:    target,
		Context:  context,
	})
	c.log().Debug("openapi version rewritten", "from", previous, "to", target)
}
