package hclcfg

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes the top-level blocks of one manifest file.
type fileRoot struct {
	Project *projectBlock  `hcl:"project,block"`
	Modules []*moduleBlock `hcl:"module,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// projectBlock is the `project { ... }` block naming the workspace and
// pinning its target platforms.
type projectBlock struct {
	Name      string   `hcl:"name"`
	Platforms []string `hcl:"platforms,optional"`
}

// moduleBlock is one `module "<name>" { ... }` declaration. Only the
// attributes the engine itself understands are decoded here; everything
// else stays in the remain body for the module's factory.
type moduleBlock struct {
	Name      string   `hcl:"name,label"`
	Type      string   `hcl:"type,optional"`
	DependsOn []string `hcl:"depends_on,optional"`
	Body      hcl.Body `hcl:",remain"`
}
