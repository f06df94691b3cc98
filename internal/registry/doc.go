// Package registry provides the central "glue" for the module system.
//
// The Registry is responsible for storing mappings between the module types
// used in manifests (e.g., "toolchain") and the actual compiled Go factories
// that build instances of them. Built-in packages install their factories
// during application startup through the Registrant interface; the manifest
// loader then asks the Registry to build the declared instances, producing
// an ordered Set for the composition engine to evaluate.
package registry
