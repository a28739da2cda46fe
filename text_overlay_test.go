package glint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextOverlay_Atlas(t *testing.T) {
	to := NewTextOverlay()

	require.NotNil(t, to.Atlas)
	bounds := to.Atlas.Bounds()
	assert.Equal(t, atlasSize, bounds.Dx())
	assert.Equal(t, atlasSize, bounds.Dy())

	nonzero := 0
	for _, p := range to.Atlas.Pix {
		if p != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Errorf("Atlas contains no rasterized glyph pixels")
	}
}

func TestNewTextOverlay_CoversPrintableAscii(t *testing.T) {
	to := NewTextOverlay()

	for r := rune(32); r < 127; r++ {
		if _, ok := to.glyphs[r]; !ok {
			t.Errorf("Glyph %q missing from atlas", r)
		}
	}
}

func TestBuildVertices_QuadPerGlyph(t *testing.T) {
	to := NewTextOverlay()

	verts := to.BuildVertices([]TextItem{
		{Text: "FPS", Position: [2]float32{10, 10}, Scale: 1, Color: [4]float32{1, 1, 0, 1}},
	}, 480, 480)

	// two triangles per glyph
	require.Len(t, verts, 18)

	for i, v := range verts {
		if v.Pos[0] < -1.001 || v.Pos[0] > 1.001 || v.Pos[1] < -1.001 || v.Pos[1] > 1.001 {
			t.Errorf("Vertex %d position %v outside clip space", i, v.Pos)
		}
		if v.UV[0] < 0 || v.UV[0] > 1 || v.UV[1] < 0 || v.UV[1] > 1 {
			t.Errorf("Vertex %d UV %v outside [0,1]", i, v.UV)
		}
		assert.Equal(t, [4]float32{1, 1, 0, 1}, v.Color)
	}
}

func TestBuildVertices_NewlineAdvancesLine(t *testing.T) {
	to := NewTextOverlay()

	verts := to.BuildVertices([]TextItem{
		{Text: "a\nb", Position: [2]float32{0, 0}, Scale: 1, Color: [4]float32{1, 1, 1, 1}},
	}, 480, 480)

	require.Len(t, verts, 12)

	// the second glyph sits a full line below the first
	if verts[6].Pos[1] >= verts[0].Pos[1] {
		t.Errorf("Expected second line below first: %f vs %f", verts[6].Pos[1], verts[0].Pos[1])
	}
	assert.InDelta(t, verts[0].Pos[0], verts[6].Pos[0], 1e-6)
}

func TestBuildVertices_ZeroScaleDefaultsToOne(t *testing.T) {
	to := NewTextOverlay()

	zero := to.BuildVertices([]TextItem{{Text: "x", Position: [2]float32{5, 5}}}, 480, 480)
	one := to.BuildVertices([]TextItem{{Text: "x", Position: [2]float32{5, 5}, Scale: 1}}, 480, 480)

	assert.Equal(t, one, zero)
}

func TestBuildVertices_SkipsUnknownRunes(t *testing.T) {
	to := NewTextOverlay()

	verts := to.BuildVertices([]TextItem{
		{Text: "é", Position: [2]float32{0, 0}, Scale: 1},
	}, 480, 480)

	assert.Empty(t, verts)
}

func TestMeasureText(t *testing.T) {
	to := NewTextOverlay()

	// Face7x13 advances 7px per glyph and stands 13px tall
	w, h := to.MeasureText("ab", 1)
	assert.InDelta(t, 14.0, w, 1e-6)
	assert.InDelta(t, 13.0, h, 1e-6)

	w, h = to.MeasureText("a\nb", 1)
	assert.InDelta(t, 7.0, w, 1e-6)
	assert.InDelta(t, 26.0, h, 1e-6)

	w, h = to.MeasureText("ab", 2)
	assert.InDelta(t, 28.0, w, 1e-6)
	assert.InDelta(t, 26.0, h, 1e-6)
}

func TestMeasureText_NilReceiver(t *testing.T) {
	var to *TextOverlay

	w, h := to.MeasureText("anything", 1)
	assert.Zero(t, w)
	assert.Zero(t, h)
}
