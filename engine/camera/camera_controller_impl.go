package camera

import (
	"math"
	"sync"
)

// cameraControllerImpl is the single implementation of CameraController.
// Pan methods translate the world position; zoom methods scale the zoom factor
// multiplicatively within the configured bounds.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [2]float32
	zoom     float32

	// Zoom constraints
	minZoom float32
	maxZoom float32

	// Speed settings
	panSpeed  float32
	zoomSpeed float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with sensible defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: [2]float32{0, 0},
		zoom:     1.0,

		minZoom: 0.1,
		maxZoom: 10.0,

		panSpeed:  1.0,
		zoomSpeed: 0.1,
	}

	for _, option := range options {
		option(cc)
	}

	cc.zoom = cc.clampZoom(cc.zoom)
	return cc
}

func (cc *cameraControllerImpl) Position() (x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1]
}

func (cc *cameraControllerImpl) Zoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoom
}

func (cc *cameraControllerImpl) SetPosition(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [2]float32{x, y}
}

func (cc *cameraControllerImpl) SetZoom(zoom float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoom = cc.clampZoom(zoom)
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] += dx * cc.panSpeed / cc.zoom
	cc.position[1] += dy * cc.panSpeed / cc.zoom
}

func (cc *cameraControllerImpl) ZoomBy(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	// Exponential scaling keeps zoom steps perceptually even: each wheel notch
	// multiplies the zoom by the same factor in either direction.
	factor := float32(math.Exp(float64(delta * cc.zoomSpeed)))
	cc.zoom = cc.clampZoom(cc.zoom * factor)
}

func (cc *cameraControllerImpl) MinZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minZoom
}

func (cc *cameraControllerImpl) MaxZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxZoom
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// clampZoom bounds a zoom value to [minZoom, maxZoom].
// Caller must hold the mutex.
func (cc *cameraControllerImpl) clampZoom(zoom float32) float32 {
	if zoom < cc.minZoom {
		return cc.minZoom
	}
	if zoom > cc.maxZoom {
		return cc.maxZoom
	}
	return zoom
}
