package common

import (
	"math"
	"unsafe"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Identity3 resets a 3x3 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 9 elements)
func Identity3(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[4], m[8] = 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Mul3 multiplies two 3x3 matrices and stores the result in out.
// All matrices are stored in column-major order.
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 9 elements)
//   - a: left-hand matrix (9 elements)
//   - b: right-hand matrix (9 elements)
func Mul3(out, a, b []float32) {
	var buf [9]float32
	for i := 0; i < 3; i++ { // column of B
		for j := 0; j < 3; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 3; k++ {
				sum += a[k*3+j] * b[i*3+k]
			}
			buf[i*3+j] = sum
		}
	}
	copy(out, buf[:])
}

// MulVec4 transforms a 4-component vector by a 4x4 column-major matrix.
// Result: out = m * v
//
// Parameters:
//   - out: destination slice (must be at least 4 elements)
//   - m: transform matrix (16 elements, column-major)
//   - v: source vector (4 elements)
func MulVec4(out, m, v []float32) {
	var buf [4]float32
	for j := 0; j < 4; j++ {
		buf[j] = m[j]*v[0] + m[4+j]*v[1] + m[8+j]*v[2] + m[12+j]*v[3]
	}
	copy(out, buf[:])
}

// Compose2D constructs a 3x3 affine transform from position, rotation, and scale.
// The composition order is translation * rotation * scale, so scale is applied
// first, then rotation, then translation. The matrix is column-major and its
// third row is always (0, 0, 1): the result is an affine 2D map, never a
// projective one.
//
// Parameters:
//   - out: destination slice (must be at least 9 elements)
//   - posX, posY: translation in world space
//   - rot: rotation angle in radians (counter-clockwise)
//   - scaleX, scaleY: scale factors along each axis
func Compose2D(out []float32, posX, posY, rot, scaleX, scaleY float32) {
	c := float32(math.Cos(float64(rot)))
	s := float32(math.Sin(float64(rot)))

	out[0] = c * scaleX
	out[1] = s * scaleX
	out[2] = 0

	out[3] = -s * scaleY
	out[4] = c * scaleY
	out[5] = 0

	out[6] = posX
	out[7] = posY
	out[8] = 1
}

// TransformPoint2D applies a 3x3 column-major affine transform to a 2D point,
// treating it as the homogeneous vector (x, y, 1).
//
// Parameters:
//   - m: transform matrix (9 elements, column-major)
//   - x, y: point coordinates
//
// Returns:
//   - float32: transformed x coordinate
//   - float32: transformed y coordinate
func TransformPoint2D(m []float32, x, y float32) (float32, float32) {
	return m[0]*x + m[3]*y + m[6], m[1]*x + m[4]*y + m[7]
}

// Ortho2D creates an orthographic projection matrix for 2D rendering.
// World coordinates inside the given rectangle map to clip space [-1, 1] on
// both axes; z is collapsed to 0 regardless of input, matching the strictly-2D
// convention used by the sprite pipeline.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: world-space x extents of the visible region
//   - bottom, top: world-space y extents of the visible region
func Ortho2D(out []float32, left, right, bottom, top float32) {
	Identity(out)
	out[0] = 2.0 / (right - left)
	out[5] = 2.0 / (top - bottom)
	out[10] = 0
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
}
