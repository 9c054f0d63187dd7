package overlay

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-2d/common"
	"github.com/Carmen-Shannon/oxy-2d/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestShapeGeometryCentered(t *testing.T) {
	for _, v := range SquareVertices() {
		if v.Position[0] < -0.5 || v.Position[0] > 0.5 || v.Position[1] < -0.5 || v.Position[1] > 0.5 {
			t.Errorf("square vertex %v outside [-0.5, 0.5]²", v.Position)
		}
	}

	// Both shapes wind counter-clockwise.
	checkCCW := func(name string, vertices []GPUOverlayVertex, indices []uint16) {
		for tri := 0; tri < len(indices)/3; tri++ {
			a := vertices[indices[tri*3]].Position
			b := vertices[indices[tri*3+1]].Position
			c := vertices[indices[tri*3+2]].Position
			cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
			if cross <= 0 {
				t.Errorf("%s triangle %d winds clockwise (cross = %v)", name, tri, cross)
			}
		}
	}
	checkCCW("square", SquareVertices(), SquareIndices())
	checkCCW("triangle", TriangleVertices(), TriangleIndices())
}

func TestGPUTypesMatchShaderLayout(t *testing.T) {
	vs := shader.NewShader("overlay_vs", shader.ShaderTypeVertex, OverlayShaderSource)
	layouts := vs.VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("vertex buffer slot count = %d, want 2", len(layouts))
	}

	v := GPUOverlayVertex{}
	mesh := layouts[0][0]
	if int(mesh.ArrayStride) != v.Size() {
		t.Errorf("mesh stride %d != GPUOverlayVertex size %d", mesh.ArrayStride, v.Size())
	}

	inst := GPUOverlayInstance{}
	instLayout := layouts[1][0]
	if int(instLayout.ArrayStride) != inst.Size() {
		t.Errorf("instance stride %d != GPUOverlayInstance size %d", instLayout.ArrayStride, inst.Size())
	}
	if instLayout.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("instance step mode = %v, want instance", instLayout.StepMode)
	}
}

func TestOverlayShaderReadsNoBindGroups(t *testing.T) {
	// The overlay pipeline works in clip space directly: no camera uniform,
	// no textures, no samplers.
	vs := shader.NewShader("overlay_vs", shader.ShaderTypeVertex, OverlayShaderSource)
	if got := len(vs.BindGroupLayoutDescriptors()); got != 0 {
		t.Errorf("vertex bind group count = %d, want 0", got)
	}
	fs := shader.NewShader("overlay_fs", shader.ShaderTypeFragment, OverlayShaderSource)
	if got := len(fs.BindGroupLayoutDescriptors()); got != 0 {
		t.Errorf("fragment bind group count = %d, want 0", got)
	}
}

func TestOverlayShaderForcesOpaqueAlpha(t *testing.T) {
	// The fragment shader must ignore any incoming alpha and output 1.0.
	if !strings.Contains(OverlayShaderSource, "vec4<f32>(in.color, 1.0)") {
		t.Error("fragment shader does not force alpha to 1.0")
	}
}

func TestGPUOverlayInstanceMarshal(t *testing.T) {
	inst := GPUOverlayInstance{
		Color: [3]float32{0.25, 0.5, 0.75},
	}
	if inst.Size() != 48 {
		t.Fatalf("Size() = %d, want 48", inst.Size())
	}
	for i := range inst.Model {
		inst.Model[i] = float32(i)
	}
	data := inst.Marshal()
	if len(data) != 48 {
		t.Fatalf("Marshal() produced %d bytes, want 48", len(data))
	}
	for i := 0; i < 9; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		if got := math.Float32frombits(bits); got != float32(i) {
			t.Errorf("model element %d = %v, want %v", i, got, float32(i))
		}
	}
	wantColor := []float32{0.25, 0.5, 0.75}
	for i := 0; i < 3; i++ {
		bits := binary.LittleEndian.Uint32(data[36+i*4:])
		if got := math.Float32frombits(bits); got != wantColor[i] {
			t.Errorf("color element %d = %v, want %v", i, got, wantColor[i])
		}
	}
}

func TestPushClearStagedCount(t *testing.T) {
	ov := NewOverlay()
	if ov.StagedCount() != 0 {
		t.Fatalf("new overlay staged count = %d, want 0", ov.StagedCount())
	}

	ov.PushSquare(OverlayParams{Scale: [2]float32{0.1, 0.1}})
	ov.PushSquare(OverlayParams{Scale: [2]float32{0.2, 0.2}})
	ov.PushTriangle(OverlayParams{Scale: [2]float32{0.3, 0.3}})
	if ov.StagedCount() != 3 {
		t.Errorf("staged count = %d, want 3", ov.StagedCount())
	}

	ov.Clear()
	if ov.StagedCount() != 0 {
		t.Errorf("staged count after clear = %d, want 0", ov.StagedCount())
	}
}

func TestMarshalInstancesSeparatesShapes(t *testing.T) {
	ov := NewOverlay()
	ov.PushSquare(OverlayParams{Position: [2]float32{0.5, 0}, Scale: [2]float32{0.1, 0.1}, Color: [3]float32{1, 0, 0}})
	ov.PushTriangle(OverlayParams{Position: [2]float32{-0.5, 0}, Scale: [2]float32{0.2, 0.2}, Color: [3]float32{0, 1, 0}})
	ov.PushTriangle(OverlayParams{Position: [2]float32{0, 0.5}, Scale: [2]float32{0.3, 0.3}, Color: [3]float32{0, 0, 1}})

	squares, squareCount, triangles, triangleCount := ov.MarshalInstances()
	if squareCount != 1 || len(squares) != 48 {
		t.Errorf("squares = %d instances, %d bytes; want 1 instance, 48 bytes", squareCount, len(squares))
	}
	if triangleCount != 2 || len(triangles) != 96 {
		t.Errorf("triangles = %d instances, %d bytes; want 2 instances, 96 bytes", triangleCount, len(triangles))
	}
}

func TestMarshalInstancesTransformAndColor(t *testing.T) {
	ov := NewOverlay()
	ov.PushSquare(OverlayParams{
		Position: [2]float32{0.25, -0.25},
		Scale:    [2]float32{0.5, 0.5},
		Color:    [3]float32{1, 0.5, 0},
	})

	squares, count, _, _ := ov.MarshalInstances()
	if count != 1 {
		t.Fatalf("square count = %d, want 1", count)
	}

	var m [9]float32
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(squares[i*4:]))
	}

	// The shape center (origin in shape space) lands at the instance position.
	x, y := common.TransformPoint2D(m[:], 0, 0)
	if x != 0.25 || y != -0.25 {
		t.Errorf("shape center = (%v, %v), want (0.25, -0.25)", x, y)
	}
	// The square's corner scales to half extents of 0.25.
	x, y = common.TransformPoint2D(m[:], 0.5, 0.5)
	if x != 0.5 || y != 0 {
		t.Errorf("shape corner = (%v, %v), want (0.5, 0)", x, y)
	}

	var color [3]float32
	for i := range color {
		color[i] = math.Float32frombits(binary.LittleEndian.Uint32(squares[36+i*4:]))
	}
	if color != [3]float32{1, 0.5, 0} {
		t.Errorf("color = %v, want (1, 0.5, 0)", color)
	}
}

func TestMarshalInstancesEmpty(t *testing.T) {
	ov := NewOverlay()
	squares, squareCount, triangles, triangleCount := ov.MarshalInstances()
	if squareCount != 0 || triangleCount != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", squareCount, triangleCount)
	}
	if len(squares) != 0 || len(triangles) != 0 {
		t.Errorf("data lengths = (%d, %d), want (0, 0)", len(squares), len(triangles))
	}
}
