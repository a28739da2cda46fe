package glint

import (
	"math"
)

// Spin rotates an entity around the Y axis by Speed radians per frame.
// The rotation is frame-locked on purpose: the sample should advance
// exactly one step per rendered frame.
type Spin struct {
	Angle float32
	Speed float32
}

const DefaultSpinSpeed = 0.02

// SpinCubeModule spawns the sample scene: a single flattened cube that
// spins in place. It registers the cube mesh with Assets and schedules
// the spin system; any installed renderer picks the entity up through
// its MeshInstance.
type SpinCubeModule struct {
	Speed float32 // radians per frame, DefaultSpinSpeed when zero
}

func (mod SpinCubeModule) Install(app *App, cmd *Commands) {
	speed := mod.Speed
	if speed == 0 {
		speed = DefaultSpinSpeed
	}

	assets := ensureAssetsResource(app)
	mesh := assets.AddMesh(cubeMesh())

	cmd.AddEntity(
		Spin{Speed: speed},
		MeshInstance{Mesh: mesh},
	)

	app.UseSystem(System(spinSystem).InStage(Update))
}

func spinSystem(cmd *Commands) {
	MakeQuery1[Spin](cmd).Map(func(_ EntityId, spin *Spin) bool {
		spin.Angle += spin.Speed
		if spin.Angle > 2*math.Pi {
			spin.Angle -= 2 * math.Pi
		}
		return true
	})
}

// cubeMesh is a box squashed along Z so the spin reads well from the
// front: bright face colors toward the camera, dimmer ones behind.
func cubeMesh() MeshData {
	return MeshData{
		Positions: []float32{
			// front face (z = 0.2)
			-0.4, -0.4, 0.2,
			0.4, -0.4, 0.2,
			0.4, 0.4, 0.2,
			-0.4, 0.4, 0.2,
			// back face (z = -0.2)
			-0.4, -0.4, -0.2,
			0.4, -0.4, -0.2,
			0.4, 0.4, -0.2,
			-0.4, 0.4, -0.2,
		},
		Colors: []float32{
			1.0, 0.0, 0.0, // red
			0.0, 1.0, 0.0, // green
			0.0, 0.0, 1.0, // blue
			1.0, 1.0, 0.0, // yellow
			1.0, 0.0, 1.0, // magenta
			0.0, 1.0, 1.0, // cyan
			1.0, 1.0, 1.0, // white
			0.5, 0.5, 0.5, // gray
		},
		Indices: []uint16{
			0, 1, 2, 2, 3, 0, // front
			4, 6, 5, 6, 4, 7, // back
			4, 0, 3, 3, 7, 4, // left
			1, 5, 6, 6, 2, 1, // right
			3, 2, 6, 6, 7, 3, // top
			4, 5, 1, 1, 0, 4, // bottom
		},
	}
}
