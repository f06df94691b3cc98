// Package hclcfg loads strata manifests.
//
// A manifest is one or more HCL files declaring a project block and any
// number of module blocks. The loader decodes only what the engine itself
// needs (names, types, depends_on, target platforms) and defers each module
// block's own attributes as an undecoded body, which the module's factory
// decodes against its own schema. That keeps the set of recognized module
// attributes with the code that implements them.
package hclcfg
