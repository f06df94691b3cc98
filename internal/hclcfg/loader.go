package hclcfg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/fsutil"
	"github.com/stratabuild/strata/internal/platform"
)

// DefaultManifestName is the file the loader looks for when pointed at a
// directory that should be treated as a project root.
const DefaultManifestName = "strata.hcl"

// Loader reads manifest files into a Manifest.
type Loader struct{}

// NewLoader creates a new manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the manifest at path. A file loads alone; a directory loads
// every .hcl file beneath it, merged in walk order. Module declaration order
// across files follows file order.
func (l *Loader) Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path", path)

	files, dir, err := l.discover(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	manifest := &Manifest{Dir: dir}
	parser := hclparse.NewParser()
	var projectFile string
	declared := make(map[string]hcl.Range)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		if root.Project != nil {
			if projectFile != "" {
				return nil, fmt.Errorf("duplicate project block in %s: already declared in %s", file, projectFile)
			}
			projectFile = file
			manifest.Project = Project{Name: root.Project.Name}
			manifest.Platforms, err = platform.ParseAll(root.Project.Platforms)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}

		for _, block := range root.Modules {
			spec := ModuleSpec{
				Name:      block.Name,
				Type:      block.Type,
				DependsOn: block.DependsOn,
				Body:      block.Body,
				DeclRange: block.Body.MissingItemRange(),
				BaseDir:   filepath.Dir(file),
			}
			if spec.Type == "" {
				spec.Type = spec.Name
			}
			if prior, ok := declared[spec.Name]; ok {
				return nil, fmt.Errorf("%s: duplicate module %q, first declared at %s", spec.DeclRange, spec.Name, prior)
			}
			declared[spec.Name] = spec.DeclRange
			manifest.Modules = append(manifest.Modules, spec)
		}
	}

	if projectFile == "" {
		return nil, fmt.Errorf("manifest at %s has no project block", path)
	}

	logger.Debug("Manifest loading complete.",
		"project", manifest.Project.Name,
		"modules", len(manifest.Modules),
		"platforms", len(manifest.Platforms))
	return manifest, nil
}

// discover resolves path into the list of files to parse and the manifest
// root directory.
func (l *Loader) discover(path string) ([]string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("manifest path %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, filepath.Dir(path), nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, "", fmt.Errorf("searching %s for manifests: %w", path, err)
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("no .hcl manifest found in %s (expected %s)", path, DefaultManifestName)
	}
	return files, path, nil
}
