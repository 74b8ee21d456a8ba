package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/game_object"
	"github.com/Carmen-Shannon/oxy-probe/engine/model"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/material"
	"github.com/chewxy/math32"
)

// Layout places the objects of the demo scene.
type Layout struct {
	OrbitCount  int
	OrbitRadius float32
	OrbitHeight float32

	GroundExtent    float32
	GroundThickness float32

	ProbePosition common.Vec3
}

// DefaultLayout returns sixteen primitives on a ring of radius 10 at height 3, a 100x100 ground
// slab 0.2 thick whose top face is at y=0, and the probe at (0, 10, 0).
func DefaultLayout() Layout {
	return Layout{
		OrbitCount:      16,
		OrbitRadius:     10,
		OrbitHeight:     3,
		GroundExtent:    100,
		GroundThickness: 0.2,
		ProbePosition:   common.Vec3{0, 10, 0},
	}
}

// OrbitTransform returns the pose of ring item i of n: rotated about world up by 2*pi*i/n and
// moved to the same rotation applied to (radius, height, 0).
//
// Parameters:
//   - i: the item index
//   - n: the ring item count
//   - radius: the ring radius
//   - height: the ring height above the ground
//
// Returns:
//   - common.Transform: the item's to-world transform
func OrbitTransform(i, n int, radius, height float32) common.Transform {
	t := common.RotationAxisAngle(common.WorldUp, 2*math32.Pi*float32(i)/float32(n))
	t.Translation = t.Point(common.Vec3{radius, height, 0})
	return t
}

// Meshes are the uploaded primitives shared by the demo scene's entries.
type Meshes struct {
	Pawn   model.MeshBatch
	Cube   model.MeshBatch
	Sphere model.MeshBatch
}

// CreateMeshes generates and uploads the pawn capsule, the unit cube and the unit sphere.
//
// Parameters:
//   - backend: the backend receiving the meshes
//
// Returns:
//   - Meshes: the uploaded batches
//   - error: an upload error
func CreateMeshes(backend renderer.RendererBackend) (Meshes, error) {
	var m Meshes
	var err error
	if m.Pawn, err = model.NewMeshBatch(backend, model.NewCapsule(0.5, 1, 8, 16)); err != nil {
		return Meshes{}, err
	}
	if m.Cube, err = model.NewMeshBatch(backend, model.NewCube()); err != nil {
		return Meshes{}, err
	}
	if m.Sphere, err = model.NewMeshBatch(backend, model.NewSphere(1, 16, 32)); err != nil {
		return Meshes{}, err
	}
	return m, nil
}

// Assemble builds the demo scene: the pawn at the origin, the ground slab, then the ring of
// alternating cubes (even indices) and spheres (odd indices), plus the probe marker sphere.
//
// Parameters:
//   - meshes: the uploaded primitives
//   - layout: object placement
//   - options: extra options applied after the entries, such as WithBlankMaps
//
// Returns:
//   - Scene: the assembled scene
func Assemble(meshes Meshes, layout Layout, options ...SceneBuilderOption) Scene {
	pawn := game_object.NewGameObject(meshes.Pawn,
		game_object.WithName("pawn"),
		game_object.WithMaterial(material.Pawn()),
	)
	ground := game_object.NewGameObject(meshes.Cube,
		game_object.WithName("ground"),
		game_object.WithMaterial(material.Ground()),
		game_object.WithPosition(common.Vec3{0, -layout.GroundThickness / 2, 0}),
		game_object.WithScale(common.Vec3{layout.GroundExtent, layout.GroundThickness, layout.GroundExtent}),
	)

	ring := make([]game_object.GameObject, layout.OrbitCount)
	for i := range ring {
		mesh := meshes.Cube
		if i%2 == 1 {
			mesh = meshes.Sphere
		}
		ring[i] = game_object.NewGameObject(mesh,
			game_object.WithName(fmt.Sprintf("ring_%d", i)),
			game_object.WithMaterial(material.Ring(i, layout.OrbitCount)),
			game_object.WithToWorld(OrbitTransform(i, layout.OrbitCount, layout.OrbitRadius, layout.OrbitHeight)),
		)
	}

	marker := game_object.NewGameObject(meshes.Sphere,
		game_object.WithName("probe_marker"),
		game_object.WithPosition(layout.ProbePosition),
	)

	opts := []SceneBuilderOption{
		WithPlayer(pawn),
		WithObjects(ground),
		WithObjects(ring...),
		WithProbeMarker(marker),
	}
	return NewScene("probe_demo", append(opts, options...)...)
}
