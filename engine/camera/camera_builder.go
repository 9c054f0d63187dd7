package camera

import (
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position (lower-left corner of the visible region).
//
// Parameters:
//   - x, y: world-space position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = [2]float32{x, y}
	}
}

// WithZoom sets the camera's initial zoom factor.
// Non-positive values are clamped to a small positive minimum.
//
// Parameters:
//   - zoom: the zoom factor to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's zoom
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = clampZoom(zoom)
	}
}

// WithViewport sets the camera's viewport dimensions in pixels.
//
// Parameters:
//   - width, height: viewport dimensions
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's viewport
func WithViewport(width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewportWidth = width
		c.viewportHeight = height
	}
}

// WithController attaches a controller to the camera.
// After all options are applied, the camera recomputes its matrix from the controller's state.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

// WithBindGroupProvider attaches a bind group provider to the camera.
// The provider describes the GPU binding requirements for camera uniforms.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
