package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-2d/common"
)

const epsilon = 1e-5

func approxEq(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

// projectPoint runs a world-space point through a camera's view-projection
// matrix and returns the clip-space x/y.
func projectPoint(cam Camera2D, wx, wy float32) (float32, float32) {
	m := cam.ViewProjectionMatrix()
	var out [4]float32
	common.MulVec4(out[:], m[:], []float32{wx, wy, 0, 1})
	return out[0], out[1]
}

func TestCameraDefaultViewMapsViewportToClipSpace(t *testing.T) {
	cam := NewCamera()

	// Defaults: position (0, 0), zoom 1, viewport 1280×720.
	x, y := projectPoint(cam, 0, 0)
	if !approxEq(x, -1) || !approxEq(y, -1) {
		t.Errorf("world origin mapped to (%v, %v), want (-1, -1)", x, y)
	}
	x, y = projectPoint(cam, 1280, 720)
	if !approxEq(x, 1) || !approxEq(y, 1) {
		t.Errorf("viewport extent mapped to (%v, %v), want (1, 1)", x, y)
	}
	x, y = projectPoint(cam, 640, 360)
	if !approxEq(x, 0) || !approxEq(y, 0) {
		t.Errorf("viewport center mapped to (%v, %v), want (0, 0)", x, y)
	}
}

func TestCameraZoomShrinksVisibleRegion(t *testing.T) {
	cam := NewCamera(
		WithViewport(1000, 1000),
	)
	cam.SetZoom(2)

	// At zoom 2 the visible world region is 500×500: its far corner maps to (1, 1).
	x, y := projectPoint(cam, 500, 500)
	if !approxEq(x, 1) || !approxEq(y, 1) {
		t.Errorf("(500, 500) mapped to (%v, %v), want (1, 1)", x, y)
	}

	// The full-viewport corner now lands outside clip space.
	x, y = projectPoint(cam, 1000, 1000)
	if !approxEq(x, 3) || !approxEq(y, 3) {
		t.Errorf("(1000, 1000) mapped to (%v, %v), want (3, 3)", x, y)
	}
}

func TestCameraPositionOffsetsView(t *testing.T) {
	cam := NewCamera(
		WithViewport(200, 100),
		WithPosition(50, -30),
	)

	x, y := projectPoint(cam, 50, -30)
	if !approxEq(x, -1) || !approxEq(y, -1) {
		t.Errorf("camera position mapped to (%v, %v), want (-1, -1)", x, y)
	}
	x, y = projectPoint(cam, 250, 70)
	if !approxEq(x, 1) || !approxEq(y, 1) {
		t.Errorf("far corner mapped to (%v, %v), want (1, 1)", x, y)
	}
}

func TestCameraZoomClamped(t *testing.T) {
	cam := NewCamera()
	cam.SetZoom(0)
	if cam.Zoom() <= 0 {
		t.Errorf("zoom = %v, want > 0 after clamping", cam.Zoom())
	}
	cam.SetZoom(-5)
	if cam.Zoom() <= 0 {
		t.Errorf("zoom = %v, want > 0 after clamping negative input", cam.Zoom())
	}
}

func TestCameraUpdateReadsController(t *testing.T) {
	ctrl := NewCameraController(
		WithStartPosition(10, 20),
		WithStartZoom(2),
	)
	cam := NewCamera(WithController(ctrl))

	cam.Update()
	x, y := cam.Position()
	if x != 10 || y != 20 {
		t.Errorf("position = (%v, %v), want (10, 20)", x, y)
	}
	if cam.Zoom() != 2 {
		t.Errorf("zoom = %v, want 2", cam.Zoom())
	}

	ctrl.SetPosition(-3, 4)
	cam.Update()
	x, y = cam.Position()
	if x != -3 || y != 4 {
		t.Errorf("position after controller move = (%v, %v), want (-3, 4)", x, y)
	}
}

func TestCameraUpdateWithoutControllerIsNoOp(t *testing.T) {
	cam := NewCamera(WithPosition(7, 8))
	cam.Update()
	x, y := cam.Position()
	if x != 7 || y != 8 {
		t.Errorf("position = (%v, %v), want unchanged (7, 8)", x, y)
	}
}

func TestControllerPanScalesWithZoom(t *testing.T) {
	ctrl := NewCameraController(
		WithStartZoom(2),
		WithPanSpeed(100),
	)

	// Pan distance divides by zoom so screen-space pan speed stays constant.
	ctrl.Pan(1, 0)
	x, _ := ctrl.Position()
	if !approxEq(x, 50) {
		t.Errorf("x after pan = %v, want 50", x)
	}
}

func TestControllerZoomByClampsToLimits(t *testing.T) {
	ctrl := NewCameraController(
		WithZoomLimits(0.5, 4),
		WithZoomSpeed(1),
	)

	ctrl.ZoomBy(100)
	if ctrl.Zoom() != 4 {
		t.Errorf("zoom = %v, want clamped to 4", ctrl.Zoom())
	}
	ctrl.ZoomBy(-100)
	if ctrl.Zoom() != 0.5 {
		t.Errorf("zoom = %v, want clamped to 0.5", ctrl.Zoom())
	}
}

func TestControllerZoomByIsExponential(t *testing.T) {
	ctrl := NewCameraController(
		WithStartZoom(1),
		WithZoomLimits(0.01, 100),
		WithZoomSpeed(0.1),
	)

	ctrl.ZoomBy(1)
	up := ctrl.Zoom()
	ctrl.ZoomBy(-2)
	down := ctrl.Zoom()

	// Symmetric scroll deltas multiply and divide by the same factor.
	if !approxEq(up*down, 1) {
		t.Errorf("zoom up %v * zoom down %v = %v, want 1", up, down, up*down)
	}
}

func TestGPUCameraUniformLayout(t *testing.T) {
	u := GPUCameraUniform{}
	if u.Size() != 64 {
		t.Fatalf("Size() = %d, want 64", u.Size())
	}

	for i := range u.ViewProj {
		u.ViewProj[i] = float32(i)
	}
	data := u.Marshal()
	if len(data) != 64 {
		t.Fatalf("Marshal() produced %d bytes, want 64", len(data))
	}
	for i := 0; i < 16; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		if got := math.Float32frombits(bits); got != float32(i) {
			t.Errorf("element %d = %v, want %v", i, got, float32(i))
		}
	}
}
