// Package scene holds the fixed draw list replayed by every pass of a frame, the demo scene
// assembly and the player controller that moves the pawn.
package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/game_object"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
)

// ReplayMode selects what Replay uploads besides each entry's transform.
type ReplayMode int

const (
	// ReplayShaded uploads every entry's material and binds its maps before drawing.
	ReplayShaded ReplayMode = iota

	// ReplayOverride uploads only Object_To_World, for programs without material slots such as
	// the depth-only shadow program.
	ReplayOverride
)

func (m ReplayMode) String() string {
	if m == ReplayOverride {
		return "override"
	}
	return "shaded"
}

type scene struct {
	mu *sync.RWMutex

	name    string
	objects []game_object.GameObject
	nextID  uint64

	player      game_object.GameObject
	probeMarker game_object.GameObject
	maps        BlankMaps
}

// Scene defines the interface for the fixed, ordered draw list of the demo.
//
// Entries are replayed in insertion order. The probe marker is kept apart from the list: it is
// only drawn on the final pass with its own program, never in the shadow or capture passes.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Objects returns the draw list entries in replay order.
	//
	// Returns:
	//   - []game_object.GameObject: a copy of the entry slice
	Objects() []game_object.GameObject

	// Add appends an entry to the end of the draw list. Objects without an ID are assigned one.
	//
	// Parameters:
	//   - obj: the entry to append
	Add(obj game_object.GameObject)

	// Player returns the pawn moved by the player controller, or nil if none is set.
	//
	// Returns:
	//   - game_object.GameObject: the pawn
	Player() game_object.GameObject

	// ProbeMarker returns the sphere that visualizes the environment probe, or nil.
	//
	// Returns:
	//   - game_object.GameObject: the probe marker
	ProbeMarker() game_object.GameObject

	// Replay draws every enabled entry against the program bound on b.
	// For each entry it uploads Object_To_World, then in ReplayShaded mode the material values and
	// the diffuse and normal maps (falling back to the blank maps), and finally issues the draw.
	//
	// Parameters:
	//   - b: the binder with the target program bound
	//   - mode: ReplayShaded or ReplayOverride
	//
	// Returns:
	//   - error: the first binding or draw error, wrapped with the entry name
	Replay(b renderer.Binder, mode ReplayMode) error

	// DrawProbeMarker draws the probe marker against the program bound on b, uploading only its
	// Object_To_World. It does nothing when no marker is set or the marker is disabled.
	//
	// Parameters:
	//   - b: the binder with the probe debug program bound
	//
	// Returns:
	//   - error: a binding or draw error
	DrawProbeMarker(b renderer.Binder) error
}

var _ Scene = &scene{}

// NewScene creates an empty Scene using the provided builder options.
//
// Parameters:
//   - name: the scene name
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the constructed scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:     &sync.RWMutex{},
		name:   name,
		nextID: 1,
	}
	for _, option := range options {
		option(s)
	}
	common.Logger().Debug("scene created", "name", name, "objects", len(s.objects))
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) Add(obj game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(obj)
}

func (s *scene) add(obj game_object.GameObject) {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
	}
	s.nextID = max(s.nextID, obj.ID()) + 1
	s.objects = append(s.objects, obj)
}

func (s *scene) Player() game_object.GameObject {
	return s.player
}

func (s *scene) ProbeMarker() game_object.GameObject {
	return s.probeMarker
}

func (s *scene) Replay(b renderer.Binder, mode ReplayMode) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		if !obj.Enabled() {
			continue
		}
		if err := s.draw(b, obj, mode); err != nil {
			return fmt.Errorf("scene: %s replay of %q failed: %w", mode, obj.Name(), err)
		}
	}
	return nil
}

func (s *scene) DrawProbeMarker(b renderer.Binder) error {
	if s.probeMarker == nil || !s.probeMarker.Enabled() {
		return nil
	}
	if err := s.draw(b, s.probeMarker, ReplayOverride); err != nil {
		return fmt.Errorf("scene: probe marker draw failed: %w", err)
	}
	return nil
}

func (s *scene) draw(b renderer.Binder, obj game_object.GameObject, mode ReplayMode) error {
	if err := b.SetUniform(shader.UniformObjectToWorld, renderer.Mat4x3(obj.Transform())); err != nil {
		return err
	}
	if mode == ReplayShaded {
		if err := s.applyMaterial(b, obj); err != nil {
			return err
		}
	}
	return b.Draw(obj.Mesh())
}

func (s *scene) applyMaterial(b renderer.Binder, obj game_object.GameObject) error {
	diffuse, normal := s.maps.Diffuse, s.maps.Normal
	if m := obj.Material(); m != nil {
		if err := m.Apply(b); err != nil {
			return err
		}
		if m.DiffuseMap() != 0 {
			diffuse = m.DiffuseMap()
		}
		if m.NormalMap() != 0 {
			normal = m.NormalMap()
		}
	}
	if err := b.BindTexture(shader.UniformMaterialDiffuseMap, diffuse, s.maps.Sampler); err != nil {
		return err
	}
	return b.BindTexture(shader.UniformMaterialNormalMap, normal, s.maps.Sampler)
}
