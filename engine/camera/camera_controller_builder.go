package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithStartPosition sets the controller's initial world-space position.
//
// Parameters:
//   - x, y: world-space coordinates
//
// Returns:
//   - CameraControllerOption: a function that sets the start position
func WithStartPosition(x, y float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = [2]float32{x, y}
	}
}

// WithStartZoom sets the controller's initial zoom factor.
// The value is clamped to the zoom bounds after all options are applied.
//
// Parameters:
//   - zoom: the initial zoom factor
//
// Returns:
//   - CameraControllerOption: a function that sets the start zoom
func WithStartZoom(zoom float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoom = zoom
	}
}

// WithZoomLimits sets the minimum and maximum allowed zoom factors.
//
// Parameters:
//   - minZoom: the minimum zoom factor
//   - maxZoom: the maximum zoom factor
//
// Returns:
//   - CameraControllerOption: a function that sets the zoom bounds
func WithZoomLimits(minZoom, maxZoom float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minZoom = minZoom
		cc.maxZoom = maxZoom
	}
}

// WithPanSpeed sets the pan speed multiplier.
//
// Parameters:
//   - speed: multiplier for pan input
//
// Returns:
//   - CameraControllerOption: a function that sets the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - CameraControllerOption: a function that sets the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
