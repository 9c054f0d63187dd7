package overlay

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// OverlayShaderSource is the canonical WGSL source for the debug overlay pipeline.
// The VertexInput and OverlayInstance structs in it match GPUOverlayVertex and
// GPUOverlayInstance layouts exactly; the pipeline's vertex buffer layouts are
// parsed from this source, so the two must stay in lockstep.
//
//go:embed assets/overlay.wgsl
var OverlayShaderSource string

// GPUOverlayVertex is the GPU-aligned representation of a single overlay shape vertex.
// Matches the WGSL VertexInput struct layout exactly (see OverlayShaderSource).
// Size: 8 bytes (one vec2<f32>).
type GPUOverlayVertex struct {
	Position [2]float32 // offset 0: shape-local position, centered on the origin (8 bytes)
}

// Size returns the size of the GPUOverlayVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUOverlayVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUOverlayVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 8-byte buffer ready for GPU upload.
func (g *GPUOverlayVertex) Marshal() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	return buf
}

// GPUOverlayInstance is the GPU-aligned representation of a single overlay instance.
// Model is a column-major 3×3 affine transform stored as three vec3 columns
// (basis-x, basis-y, translation); the third matrix row is always (0,0,1).
// Color is the flat RGB fill; the fragment shader forces alpha to 1.0.
// Matches the WGSL OverlayInstance struct layout exactly (locations 2-5, instance
// step mode). Size: 48 bytes (four vec3<f32>, no padding required).
type GPUOverlayInstance struct {
	Model [9]float32 // offset  0: 3×3 transform in clip space, column-major (36 bytes)
	Color [3]float32 // offset 36: flat RGB fill color (12 bytes)
}

// Size returns the size of the GPUOverlayInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUOverlayInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUOverlayInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUOverlayInstance) Marshal() []byte {
	buf := make([]byte, 48)
	for i := range 9 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.Color[2]))
	return buf
}

// SquareVertices returns the unit square mesh centered on the origin,
// spanning [-0.5, 0.5] on both axes.
//
// Returns:
//   - []GPUOverlayVertex: the four square vertices in CCW order
func SquareVertices() []GPUOverlayVertex {
	return []GPUOverlayVertex{
		{Position: [2]float32{-0.5, -0.5}},
		{Position: [2]float32{0.5, -0.5}},
		{Position: [2]float32{0.5, 0.5}},
		{Position: [2]float32{-0.5, 0.5}},
	}
}

// SquareIndices returns the index list for the unit square: two CCW triangles.
//
// Returns:
//   - []uint16: six indices forming the square
func SquareIndices() []uint16 {
	return []uint16{0, 1, 2, 0, 2, 3}
}

// TriangleVertices returns the unit triangle mesh centered on the origin:
// base along y = -0.5, apex at (0, 0.5).
//
// Returns:
//   - []GPUOverlayVertex: the three triangle vertices in CCW order
func TriangleVertices() []GPUOverlayVertex {
	return []GPUOverlayVertex{
		{Position: [2]float32{-0.5, -0.5}},
		{Position: [2]float32{0.5, -0.5}},
		{Position: [2]float32{0, 0.5}},
	}
}

// TriangleIndices returns the index list for the unit triangle.
//
// Returns:
//   - []uint16: three indices forming the triangle
func TriangleIndices() []uint16 {
	return []uint16{0, 1, 2}
}
