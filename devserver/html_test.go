package devserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIndex(t *testing.T) {
	page, err := renderIndex("My App", false)
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<title>My App</title>")
	assert.Contains(t, html, `id="webgl-canvas"`)
	assert.Contains(t, html, "/wasm_exec.js")
	assert.Contains(t, html, "/main.wasm")
	if strings.Contains(html, "/_/reload") {
		t.Errorf("Live reload script emitted without Watch")
	}
}

func TestRenderIndex_LiveReload(t *testing.T) {
	page, err := renderIndex("glint", true)
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "/_/reload")
	assert.Contains(t, html, "location.reload()")
}

func TestRenderIndex_EscapesTitle(t *testing.T) {
	page, err := renderIndex(`<script>alert("x")</script>`, false)
	require.NoError(t, err)

	html := string(page)
	if strings.Contains(html, `<script>alert`) {
		t.Errorf("Title was not HTML-escaped")
	}
}
