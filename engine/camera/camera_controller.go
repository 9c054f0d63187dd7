package camera

// CameraController defines the interface for 2D camera control systems.
// Controllers own positional state (world position, zoom factor). The camera
// reads from its controller during Update and recomputes the view-projection
// matrix. Panning translates the visible world region; zooming scales it
// around the camera position.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y: world-space camera position
	Position() (x, y float32)

	// Zoom returns the current zoom factor. Always > 0.
	//
	// Returns:
	//   - float32: the zoom factor
	Zoom() float32

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - x, y: world-space coordinates
	SetPosition(x, y float32)

	// SetZoom sets the zoom factor directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - zoom: the new zoom factor
	SetZoom(zoom float32)

	// Pan translates the camera in world space. Deltas are scaled by PanSpeed
	// and divided by the current zoom so panning covers the same on-screen
	// distance regardless of zoom level.
	//
	// Parameters:
	//   - dx, dy: pan amounts in screen-relative units
	Pan(dx, dy float32)

	// ZoomBy adjusts the zoom factor multiplicatively. Positive delta zooms in,
	// negative zooms out, scaled by ZoomSpeed and clamped to min/max bounds.
	//
	// Parameters:
	//   - delta: zoom input amount (e.g. scroll wheel delta)
	ZoomBy(delta float32)

	// MinZoom returns the minimum allowed zoom factor.
	//
	// Returns:
	//   - float32: minimum zoom
	MinZoom() float32

	// MaxZoom returns the maximum allowed zoom factor.
	//
	// Returns:
	//   - float32: maximum zoom
	MaxZoom() float32

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}
