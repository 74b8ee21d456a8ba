package model

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

// ErrEmptyMesh is returned when a mesh without vertices or indices is uploaded.
var ErrEmptyMesh = errors.New("model: mesh has no geometry")

// meshBatch is the implementation of the MeshBatch interface.
type meshBatch struct {
	name           string
	handle         renderer.MeshHandle
	indexCount     uint32
	boundingRadius float32
}

// MeshBatch defines the interface for uploaded mesh geometry. It is the opaque draw handle the
// scene draw list replays: a backend mesh plus its index count. Batches are created once at
// startup and are read-only to the frame pipeline.
type MeshBatch interface {
	renderer.Drawable

	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// BoundingRadius returns the model-space bounding sphere radius around the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ MeshBatch = &meshBatch{}

// NewMeshBatch uploads mesh geometry to the backend.
//
// Parameters:
//   - backend: the backend receiving the vertex and index buffers
//   - mesh: the CPU-side geometry
//
// Returns:
//   - MeshBatch: the uploaded batch
//   - error: ErrEmptyMesh or an upload error
func NewMeshBatch(backend renderer.RendererBackend, mesh Mesh) (MeshBatch, error) {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyMesh, mesh.Name)
	}
	handle, err := backend.CreateMesh(renderer.MeshDescriptor{
		Label:    mesh.Name,
		Vertices: MarshalVertices(mesh.Vertices),
		Indices:  mesh.Indices,
	})
	if err != nil {
		return nil, fmt.Errorf("model: failed to upload mesh %q: %w", mesh.Name, err)
	}
	return &meshBatch{
		name:           mesh.Name,
		handle:         handle,
		indexCount:     uint32(len(mesh.Indices)),
		boundingRadius: mesh.BoundingRadius(),
	}, nil
}

func (b *meshBatch) Name() string {
	return b.name
}

func (b *meshBatch) Mesh() renderer.MeshHandle {
	return b.handle
}

func (b *meshBatch) IndexCount() uint32 {
	return b.indexCount
}

func (b *meshBatch) BoundingRadius() float32 {
	return b.boundingRadius
}
