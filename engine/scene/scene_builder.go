package scene

import (
	"github.com/Carmen-Shannon/oxy-probe/engine/game_object"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithObjects appends initial entries to the draw list in the given order.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			s.add(obj)
		}
	}
}

// WithPlayer appends the pawn to the draw list and marks it as the object moved by the player
// controller.
//
// Parameters:
//   - player: the pawn
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPlayer(player game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.add(player)
		s.player = player
	}
}

// WithProbeMarker sets the sphere drawn at the environment probe on the final pass.
// The marker is not part of the replayed draw list.
//
// Parameters:
//   - marker: the probe marker
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProbeMarker(marker game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.probeMarker = marker
	}
}

// WithBlankMaps sets the textures bound in place of missing material maps.
//
// Parameters:
//   - maps: the blank maps, usually from CreateBlankMaps
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBlankMaps(maps BlankMaps) SceneBuilderOption {
	return func(s *scene) {
		s.maps = maps
	}
}
