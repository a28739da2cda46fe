package glint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets_AddAndGetMesh(t *testing.T) {
	assets := NewAssets()

	data := MeshData{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Colors:    []float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Indices:   []uint16{0, 1, 2},
	}
	mesh := assets.AddMesh(data)

	require.NotEmpty(t, mesh.Id())

	got, ok := assets.GetMesh(mesh)
	require.True(t, ok)
	assert.Equal(t, data, got)

	if assets.MeshCount() != 1 {
		t.Errorf("Expected 1 mesh, got %d", assets.MeshCount())
	}
}

func TestAssets_UniqueIds(t *testing.T) {
	assets := NewAssets()

	m1 := assets.AddMesh(MeshData{Indices: []uint16{0}})
	m2 := assets.AddMesh(MeshData{Indices: []uint16{0}})

	if m1.Id() == m2.Id() {
		t.Errorf("Expected distinct mesh ids, both were %s", m1.Id())
	}
	assert.Equal(t, 2, assets.MeshCount())
}

func TestAssets_GetMeshUnknown(t *testing.T) {
	assets := NewAssets()

	_, ok := assets.GetMesh(Mesh{assetId: "nope"})
	assert.False(t, ok)
}

func TestEnsureAssetsResource_Idempotent(t *testing.T) {
	app := NewAppBuilder().Build()

	first := ensureAssetsResource(app)
	second := ensureAssetsResource(app)

	if first != second {
		t.Errorf("Expected the same Assets instance on repeat calls")
	}

	res, ok := resourceOf[Assets](app)
	require.True(t, ok)
	assert.Same(t, first, res)
}

func TestAssetsModule_InstallsResource(t *testing.T) {
	app := NewAppBuilder().UseModules(AssetsModule{}).Build()

	_, ok := resourceOf[Assets](app)
	assert.True(t, ok)
}
