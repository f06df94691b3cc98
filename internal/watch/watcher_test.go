package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string) <-chan struct{} {
	t.Helper()

	w, err := New(dir, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)
	return ch
}

func TestWatcher_SignalsOnManifestChange(t *testing.T) {
	dir := t.TempDir()
	ch := startWatcher(t, dir)

	manifest := filepath.Join(dir, "strata.hcl")
	require.NoError(t, os.WriteFile(manifest, []byte("project {\n  name = \"x\"\n}\n"), 0o644))

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal after manifest write")
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	ch := startWatcher(t, dir)

	manifest := filepath.Join(dir, "strata.hcl")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(manifest, []byte("project {\n  name = \"x\"\n}\n"), 0o644))
	}

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal after burst")
	}

	// The burst fell inside one debounce window, so one signal covers it.
	select {
	case <-ch:
		t.Fatal("burst produced a second signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	ch := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644))

	select {
	case <-ch:
		t.Fatal("unrelated file produced a change signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRelevant(t *testing.T) {
	testCases := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"manifest write", fsnotify.Event{Name: "a/strata.hcl", Op: fsnotify.Write}, true},
		{"manifest create", fsnotify.Event{Name: "a/extra.hcl", Op: fsnotify.Create}, true},
		{"toolchain pin", fsnotify.Event{Name: "rust-toolchain.toml", Op: fsnotify.Write}, true},
		{"cargo manifest", fsnotify.Event{Name: "core/Cargo.toml", Op: fsnotify.Rename}, true},
		{"rust source", fsnotify.Event{Name: "src/main.rs", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "strata.hcl", Op: fsnotify.Chmod}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, relevant(tc.event))
		})
	}
}
