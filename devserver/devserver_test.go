package devserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/glint"
)

// newTestServer wires a Server by hand so tests skip the GOROOT lookup
// and the initial build.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	workDir := t.TempDir()
	wasmExecPath := filepath.Join(workDir, "wasm_exec.js")
	require.NoError(t, os.WriteFile(wasmExecPath, []byte("// runtime shim"), 0o644))

	index, err := renderIndex("test", false)
	require.NoError(t, err)

	log := glint.NewNopLogger()
	return &Server{
		cfg:          Config{Addr: ":0", AppDir: ".", Title: "test"},
		log:          log,
		builder:      newWasmBuilder(".", workDir, log),
		hub:          newReloadHub(log),
		workDir:      workDir,
		wasmExecPath: wasmExecPath,
		index:        index,
	}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_ServesIndex(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.logRequests(s.routes()))
	defer ts.Close()

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "webgl-canvas")
}

func TestServer_ServesWasmExec(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/wasm_exec.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "// runtime shim", body)
}

func TestServer_UnknownPathIs404(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, _ := get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ServesWasmArtifact(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	// nothing built yet
	resp, _ := get(t, ts.URL+"/main.wasm")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	artifact := []byte{0x00, 0x61, 0x73, 0x6d}
	require.NoError(t, os.WriteFile(s.builder.OutPath(), artifact, 0o644))

	resp, body := get(t, ts.URL+"/main.wasm")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, string(artifact), body)
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(Config{}, glint.NewNopLogger())
	require.NoError(t, err)
	defer os.RemoveAll(s.workDir)

	assert.Equal(t, ":8080", s.cfg.Addr)
	assert.Equal(t, ".", s.cfg.AppDir)
	assert.Equal(t, "glint", s.cfg.Title)
	assert.NotEmpty(t, s.wasmExecPath)
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", displayAddr(":8080"))
	assert.Equal(t, "0.0.0.0:9000", displayAddr("0.0.0.0:9000"))
}
