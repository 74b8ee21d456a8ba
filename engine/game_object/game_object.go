package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/model"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/material"
)

type gameObject struct {
	mu sync.RWMutex

	id       uint64
	name     string
	enabled  atomic.Bool
	mesh     model.MeshBatch
	material material.Material

	// rigid placement; scale is kept apart so the pose stays invertible
	toWorld common.Transform
	scale   common.Vec3
}

// GameObject defines the interface for one draw list entry: a mesh batch placed in the world
// with an optional material.
//
// The pose (ToWorld) is rigid. Scale is stored separately and only folded in by Transform,
// which is the matrix uploaded to the Object_To_World slot.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name, used in logs and errors.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Enabled returns whether this object is replayed by the draw list.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Mesh returns the mesh batch drawn for this object.
	//
	// Returns:
	//   - model.MeshBatch: the mesh batch
	Mesh() model.MeshBatch

	// Material returns the surface material, or nil when the object is drawn without one.
	//
	// Returns:
	//   - material.Material: the material or nil
	Material() material.Material

	// ToWorld returns the rigid model-to-world pose without scale.
	//
	// Returns:
	//   - common.Transform: the pose
	ToWorld() common.Transform

	// Position returns the translation of the pose.
	//
	// Returns:
	//   - common.Vec3: the world position
	Position() common.Vec3

	// Scale returns the per-axis model scale.
	//
	// Returns:
	//   - common.Vec3: the scale factors
	Scale() common.Vec3

	// Transform returns the pose with scale applied, as uploaded to Object_To_World.
	//
	// Returns:
	//   - common.Transform: the object-to-world transform
	Transform() common.Transform

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is replayed by the draw list.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetToWorld replaces the rigid pose.
	//
	// Parameters:
	//   - t: the new pose
	SetToWorld(t common.Transform)

	// SetPosition moves the object, keeping its orientation.
	//
	// Parameters:
	//   - p: the new world position
	SetPosition(p common.Vec3)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject drawing mesh, placed at the origin with unit scale.
//
// Parameters:
//   - mesh: the mesh batch to draw
//   - options: variadic list of GameObjectBuilderOption functions to configure the object
//
// Returns:
//   - GameObject: the constructed object
func NewGameObject(mesh model.MeshBatch, options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mesh:    mesh,
		toWorld: common.IdentityTransform(),
		scale:   common.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	if mesh != nil {
		obj.name = mesh.Name()
	}
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Mesh() model.MeshBatch {
	return g.mesh
}

func (g *gameObject) Material() material.Material {
	return g.material
}

func (g *gameObject) ToWorld() common.Transform {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.toWorld
}

func (g *gameObject) Position() common.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.toWorld.Translation
}

func (g *gameObject) Scale() common.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) Transform() common.Transform {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return common.MakeTransform(g.toWorld, g.toWorld.Translation, g.scale)
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetToWorld(t common.Transform) {
	g.mu.Lock()
	g.toWorld = t
	g.mu.Unlock()
}

func (g *gameObject) SetPosition(p common.Vec3) {
	g.mu.Lock()
	g.toWorld.Translation = p
	g.mu.Unlock()
}
