package devserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/glint"
)

func TestWatchedFile(t *testing.T) {
	cases := map[string]bool{
		"main.go":           true,
		"sub/dir/render.go": true,
		"cube.wgsl":         true,
		"cube_vert.glsl":    true,
		"index.html":        true,
		"notes.txt":         false,
		"main.wasm":         false,
		"go.mod":            false,
	}
	for name, want := range cases {
		if got := watchedFile(name); got != want {
			t.Errorf("watchedFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSkipDir(t *testing.T) {
	for _, name := range []string{".git", ".idea", "vendor", "node_modules", "dist"} {
		assert.True(t, skipDir(name), "should skip %s", name)
	}
	for _, name := range []string{"src", "cmd", "internal"} {
		assert.False(t, skipDir(name), "should watch %s", name)
	}
}

func TestShouldProcessEvent(t *testing.T) {
	assert.True(t, shouldProcessEvent(fsnotify.Event{Name: "main.go", Op: fsnotify.Write}))
	assert.True(t, shouldProcessEvent(fsnotify.Event{Name: "app.go", Op: fsnotify.Remove}))
	assert.False(t, shouldProcessEvent(fsnotify.Event{Name: "main.go", Op: fsnotify.Chmod}))
	assert.False(t, shouldProcessEvent(fsnotify.Event{Name: "README.md", Op: fsnotify.Write}))
}

func TestModuleRoot(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "cmd", "demo")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module demo\n"), 0o644))

	assert.Equal(t, root, moduleRoot(appDir))
	assert.Equal(t, root, moduleRoot(root))

	// without a go.mod anywhere above, the dir itself is watched
	bare := t.TempDir()
	assert.Equal(t, bare, moduleRoot(bare))
}

func TestSourceWatcher_CoversWholeModule(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "cmd", "demo")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module demo\n"), 0o644))

	sw, err := newSourceWatcher(moduleRoot(appDir), glint.NewNopLogger())
	require.NoError(t, err)
	defer sw.Close()

	// a framework file edit outside the app package must still rebuild
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.go"), []byte("package demo\n"), 0o644))

	select {
	case name := <-sw.Changes():
		assert.Equal(t, "app.go", name)
	case <-time.After(3 * time.Second):
		t.Fatalf("No change reported for a module root edit within 3s")
	}
}

func TestSourceWatcher_ReportsChanges(t *testing.T) {
	dir := t.TempDir()

	sw, err := newSourceWatcher(dir, glint.NewNopLogger())
	require.NoError(t, err)
	defer sw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	select {
	case name := <-sw.Changes():
		assert.Equal(t, "main.go", name)
	case <-time.After(3 * time.Second):
		t.Fatalf("No change reported within 3s")
	}
}

func TestSourceWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()

	sw, err := newSourceWatcher(dir, glint.NewNopLogger())
	require.NoError(t, err)
	defer sw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644))

	select {
	case name := <-sw.Changes():
		t.Fatalf("Unexpected change reported: %s", name)
	case <-time.After(600 * time.Millisecond):
	}
}
