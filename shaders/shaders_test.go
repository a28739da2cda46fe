package shaders

import (
	"strings"
	"testing"
)

func TestWGSLEntryPoints(t *testing.T) {
	for name, src := range map[string]string{
		"CubeWGSL": CubeWGSL,
		"TextWGSL": TextWGSL,
	} {
		if !strings.Contains(src, "fn vs_main") {
			t.Errorf("%s is missing the vs_main entry point", name)
		}
		if !strings.Contains(src, "fn fs_main") {
			t.Errorf("%s is missing the fs_main entry point", name)
		}
	}
}

func TestCubeWGSLUniformBinding(t *testing.T) {
	if !strings.Contains(CubeWGSL, "@group(0) @binding(0)") {
		t.Errorf("Cube shader must bind the model uniform at group 0 binding 0")
	}
	if !strings.Contains(CubeWGSL, "mat4x4<f32>") {
		t.Errorf("Cube shader must declare a 4x4 model matrix")
	}
}

func TestTextWGSLSamplesAtlas(t *testing.T) {
	if !strings.Contains(TextWGSL, "texture_2d<f32>") {
		t.Errorf("Text shader must declare the atlas texture")
	}
	if !strings.Contains(TextWGSL, "sampler") {
		t.Errorf("Text shader must declare the atlas sampler")
	}
}

func TestGLSLSources(t *testing.T) {
	if !strings.Contains(CubeVertexGLSL, "modelViewMatrix") {
		t.Errorf("Vertex shader must take the model uniform")
	}
	if !strings.Contains(CubeVertexGLSL, "gl_Position") {
		t.Errorf("Vertex shader must write gl_Position")
	}
	if !strings.Contains(CubeFragmentGLSL, "gl_FragColor") {
		t.Errorf("Fragment shader must write gl_FragColor")
	}
	if !strings.Contains(CubeFragmentGLSL, "precision mediump float") {
		t.Errorf("Fragment shader needs a default precision for WebGL")
	}
}
