package scene

import (
	"github.com/Carmen-Shannon/oxy-2d/engine/overlay"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithOverlay replaces the scene's default overlay with a pre-configured one.
//
// Parameters:
//   - ov: the overlay to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithOverlay(ov overlay.Overlay) SceneBuilderOption {
	return func(s *scene) {
		s.ov = ov
	}
}

// WithMarshalWorkers sets the number of worker goroutines used during the
// parallel instance marshal phase of PrepareFrame. Defaults to runtime.NumCPU()-1.
// Higher values may improve throughput with many sprite batches; lower values
// reduce scheduling overhead for simple scenes.
//
// Parameters:
//   - n: the number of marshal workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMarshalWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.marshalWorkers = n
	}
}
