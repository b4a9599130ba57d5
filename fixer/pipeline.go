package fixer

import "go.yaml.in/yaml/v4"

// applyFixPipeline runs the enabled fixes on root in a fixed order.
func (f *Fixer) applyFixPipeline(root *yaml.Node, result *FixResult) {
	// Discriminators must run before descriptions are turned into text.
	if f.isFixEnabled(FixTypeDiscriminatorRequired) {
		f.fixDiscriminators(root, result)
	}

	if f.isFixEnabled(FixTypeDescriptionObject) {
		f.fixDescriptions(root, result)
	}

	result.Root = root
	result.FixCount = len(result.Fixes)
	f.log().Debug("fixes applied",
		"discriminator", result.CountByType(FixTypeDiscriminatorRequired),
		"description", result.CountByType(FixTypeDescriptionObject))
}
