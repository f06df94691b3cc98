package hclcfg

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/stratabuild/strata/internal/platform"
)

// Project names the workspace a manifest describes.
type Project struct {
	Name string
}

// Manifest is the decoded, engine-facing view of a loaded configuration.
type Manifest struct {
	Project Project
	// Platforms holds the declared targets. Empty means the project did not
	// pin any; TargetPlatforms falls back to the host.
	Platforms []platform.Platform
	// Modules holds every declaration in file order, then block order
	// within a file. That order is load-bearing: it breaks evaluation ties.
	Modules []ModuleSpec
	// Dir is the directory the manifest was loaded from. Relative paths in
	// module blocks resolve against their own file's directory.
	Dir string
}

// ModuleSpec is one module declaration handed to a factory.
type ModuleSpec struct {
	// Name is the block label, unique across the manifest.
	Name string
	// Type selects the factory. It defaults to Name when the block carries
	// no type attribute.
	Type string
	// DependsOn lists the module names this one must run after.
	DependsOn []string
	// Body holds the block's remaining attributes, undecoded.
	Body hcl.Body
	// DeclRange locates the declaration for error messages.
	DeclRange hcl.Range
	// BaseDir is the directory of the declaring file.
	BaseDir string
}

// Decode unpacks the module's own attributes into an hcl-tagged struct.
func (s ModuleSpec) Decode(into any) error {
	diags := gohcl.DecodeBody(s.Body, nil, into)
	if diags.HasErrors() {
		return fmt.Errorf("module %q: %w", s.Name, diags)
	}
	return nil
}

// TargetPlatforms returns the declared platforms, or the host platform when
// the project pins none.
func (m *Manifest) TargetPlatforms() ([]platform.Platform, error) {
	if len(m.Platforms) > 0 {
		return append([]platform.Platform(nil), m.Platforms...), nil
	}
	host, err := platform.Current()
	if err != nil {
		return nil, fmt.Errorf("project pins no platforms and the host is unsupported: %w", err)
	}
	return []platform.Platform{host}, nil
}
