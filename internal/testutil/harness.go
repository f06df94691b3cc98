// Package testutil carries the shared plumbing for unit and system tests:
// a race-safe log buffer, fixture writing, and manifest parsing helpers.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratabuild/strata/internal/hclcfg"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles materializes a map of relative paths to contents under a fresh
// temporary directory and returns its root.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// LoadManifest writes the given files and runs the real loader over them.
func LoadManifest(t *testing.T, files map[string]string) *hclcfg.Manifest {
	t.Helper()

	root := WriteFiles(t, files)
	m, err := hclcfg.NewLoader().Load(context.Background(), root)
	require.NoError(t, err)
	return m
}

// ModuleSpec loads a manifest consisting of a project block, the given
// module block source, and any extra fixture files, then returns the single
// module's spec. The spec's BaseDir points at the fixture directory, so
// modules that read files beside the manifest find the extras.
func ModuleSpec(t *testing.T, src string, extra map[string]string) hclcfg.ModuleSpec {
	t.Helper()

	files := map[string]string{
		"strata.hcl": "project {\n  name = \"fixture\"\n}\n\n" + src,
	}
	for name, content := range extra {
		files[name] = content
	}

	m := LoadManifest(t, files)
	require.Len(t, m.Modules, 1, "expected exactly one module block in fixture")
	return m.Modules[0]
}
