package glint

import (
	"sync"

	"github.com/google/uuid"
)

type AssetId string

// MeshData is indexed triangle geometry with per-vertex colors.
// Positions and Colors hold three floats per vertex.
type MeshData struct {
	Positions []float32
	Colors    []float32
	Indices   []uint16
}

// Mesh is an opaque handle to mesh data registered with Assets.
type Mesh struct {
	assetId AssetId
}

func (m Mesh) Id() AssetId { return m.assetId }

// MeshInstance attaches registered mesh geometry to an entity.
// Renderers upload GPU buffers for it lazily, on first sight.
type MeshInstance struct {
	Mesh Mesh
}

// Assets is the in-memory mesh registry. Meshes are registered from
// code; nothing is loaded from disk.
type Assets struct {
	mu     sync.RWMutex
	meshes map[AssetId]MeshData
}

func NewAssets() *Assets {
	return &Assets{
		meshes: make(map[AssetId]MeshData),
	}
}

func (a *Assets) AddMesh(data MeshData) Mesh {
	id := makeAssetId()

	a.mu.Lock()
	a.meshes[id] = data
	a.mu.Unlock()

	return Mesh{assetId: id}
}

func (a *Assets) GetMesh(mesh Mesh) (MeshData, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.meshes[mesh.assetId]
	return data, ok
}

func (a *Assets) MeshCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.meshes)
}

type AssetsModule struct{}

func (AssetsModule) Install(app *App, cmd *Commands) {
	ensureAssetsResource(app)
}

// ensureAssetsResource registers the Assets resource on first use so
// modules that need it do not depend on install order.
func ensureAssetsResource(app *App) *Assets {
	if assets, ok := resourceOf[Assets](app); ok {
		return assets
	}

	assets := NewAssets()
	app.addResources(assets)
	return assets
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
