package sprite

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// SpriteShaderSource is the canonical WGSL source for the sprite pipeline.
// The VertexInput and SpriteInstance structs in it match GPUSpriteVertex and
// GPUSpriteInstance layouts exactly; the pipeline's vertex buffer layouts are
// parsed from this source, so the two must stay in lockstep.
//
//go:embed assets/sprite.wgsl
var SpriteShaderSource string

// GPUSpriteVertex is the GPU-aligned representation of a single sprite quad vertex.
// Matches the WGSL VertexInput struct layout exactly (see SpriteShaderSource).
// Size: 16 bytes (two vec2<f32>, no padding required).
type GPUSpriteVertex struct {
	Position  [2]float32 // offset 0: quad-local position in [0,1]² (8 bytes)
	TexCoords [2]float32 // offset 8: UV texture coordinate, v flipped so v=0 is the image top (8 bytes)
}

// Size returns the size of the GPUSpriteVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSpriteVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSpriteVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUSpriteVertex) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.TexCoords[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.TexCoords[1]))
	return buf
}

// GPUSpriteInstance is the GPU-aligned representation of a single sprite instance.
// Model is a column-major 3×3 affine transform stored as three vec3 columns
// (basis-x, basis-y, translation); the third matrix row is always (0,0,1).
// Matches the WGSL SpriteInstance struct layout exactly (locations 2-4, instance
// step mode). Size: 36 bytes (three vec3<f32>, no padding required).
type GPUSpriteInstance struct {
	Model [9]float32 // offset 0: 3×3 model-to-world transform, column-major (36 bytes)
}

// Size returns the size of the GPUSpriteInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSpriteInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSpriteInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 36-byte buffer ready for GPU upload.
func (g *GPUSpriteInstance) Marshal() []byte {
	buf := make([]byte, 36)
	for i := range 9 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
	return buf
}

// QuadVertices returns the unit quad mesh for sprite rendering: positions span
// [0,1]² with the origin at the lower-left, and tex coords have v flipped so
// v=0 samples the top row of the image (image data is stored top-down).
//
// Returns:
//   - []GPUSpriteVertex: the four quad vertices in CCW order
func QuadVertices() []GPUSpriteVertex {
	return []GPUSpriteVertex{
		{Position: [2]float32{0, 0}, TexCoords: [2]float32{0, 1}},
		{Position: [2]float32{1, 0}, TexCoords: [2]float32{1, 1}},
		{Position: [2]float32{1, 1}, TexCoords: [2]float32{1, 0}},
		{Position: [2]float32{0, 1}, TexCoords: [2]float32{0, 0}},
	}
}

// QuadIndices returns the index list for the unit quad: two CCW triangles.
//
// Returns:
//   - []uint16: six indices forming the quad
func QuadIndices() []uint16 {
	return []uint16{0, 1, 2, 0, 2, 3}
}
