package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/bind_group_provider"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// minZoom is the smallest zoom factor a camera will accept. Non-positive zoom
// values would invert or collapse the view volume, so they are clamped here.
const minZoom = 1e-4

type cameraImpl struct {
	mu *sync.Mutex

	position [2]float32
	zoom     float32

	viewportWidth  float32
	viewportHeight float32

	viewProjectionMatrix [16]float32

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera2D defines the interface for the 2D camera system.
// The camera maps a world-space rectangle to clip space: with position p, zoom z,
// and viewport w×h, world x ∈ [p.x, p.x + w/z] maps to [-1, 1] and likewise for y.
// Zooming in (larger z) shrinks the visible world region. The z axis is collapsed
// to 0 — all 2D geometry lands on the near plane.
type Camera2D interface {
	// Position returns the camera's world-space position (the lower-left corner of the visible region).
	//
	// Returns:
	//   - x, y: world-space position
	Position() (x, y float32)

	// Zoom returns the current zoom factor. Always > 0.
	//
	// Returns:
	//   - float32: the zoom factor
	Zoom() float32

	// Viewport returns the viewport dimensions in pixels.
	//
	// Returns:
	//   - width, height: viewport dimensions
	Viewport() (width, height float32)

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// GPUUniform returns the camera's current state packed into the GPU uniform layout,
	// ready to marshal and write to the camera uniform buffer.
	//
	// Returns:
	//   - *GPUCameraUniform: the packed uniform data
	GPUUniform() *GPUCameraUniform

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update reads position/zoom from the attached controller and recomputes the matrix.
	// Should be called once per frame (typically in the tick callback).
	// If no controller is attached, this method does nothing.
	Update()

	// SetPosition sets the camera's world-space position and recomputes the matrix.
	//
	// Parameters:
	//   - x, y: world-space position
	SetPosition(x, y float32)

	// SetZoom sets the zoom factor and recomputes the matrix.
	// Non-positive values are clamped to a small positive minimum.
	//
	// Parameters:
	//   - zoom: the new zoom factor
	SetZoom(zoom float32)

	// SetViewport sets the viewport dimensions and recomputes the matrix.
	// Call when the window is resized so world proportions stay correct.
	//
	// Parameters:
	//   - width, height: viewport dimensions in pixels
	SetViewport(width, height float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// SetBindGroupProvider sets the camera's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Camera2D = &cameraImpl{}

// NewCamera creates a new Camera2D with default settings (origin position,
// zoom 1.0, 1280×720 viewport). A controller may be attached via SetController
// or the WithController option to drive position/zoom from input.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera2D: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera2D {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		position:       [2]float32{0, 0},
		zoom:           1.0,
		viewportWidth:  1280,
		viewportHeight: 720,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_bgp_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrix()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Position() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1]
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) Viewport() (width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportWidth, c.viewportHeight
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) GPUUniform() *GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &GPUCameraUniform{ViewProj: c.viewProjectionMatrix}
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	px, py := c.controller.Position()
	c.position = [2]float32{px, py}
	c.zoom = clampZoom(c.controller.Zoom())
	c.updateMatrix()
}

func (c *cameraImpl) SetPosition(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [2]float32{x, y}
	c.updateMatrix()
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = clampZoom(zoom)
	c.updateMatrix()
}

func (c *cameraImpl) SetViewport(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewportWidth = width
	c.viewportHeight = height
	c.updateMatrix()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

// updateMatrix recomputes the orthographic view-projection matrix from
// position, zoom, and viewport. Caller must hold the mutex.
func (c *cameraImpl) updateMatrix() {
	left := c.position[0]
	right := c.position[0] + c.viewportWidth/c.zoom
	bottom := c.position[1]
	top := c.position[1] + c.viewportHeight/c.zoom
	common.Ortho2D(c.viewProjectionMatrix[:], left, right, bottom, top)
}

func clampZoom(zoom float32) float32 {
	if zoom < minZoom {
		return minZoom
	}
	return zoom
}
