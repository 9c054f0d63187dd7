package common

import (
	"math"
	"testing"
)

const epsilon = 1e-5

func approxEq(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func TestCompose2DTranslationOnly(t *testing.T) {
	var m [9]float32
	Compose2D(m[:], 10, -4, 0, 1, 1)

	x, y := TransformPoint2D(m[:], 0, 0)
	if !approxEq(x, 10) || !approxEq(y, -4) {
		t.Errorf("origin mapped to (%v, %v), want (10, -4)", x, y)
	}

	x, y = TransformPoint2D(m[:], 1, 1)
	if !approxEq(x, 11) || !approxEq(y, -3) {
		t.Errorf("(1,1) mapped to (%v, %v), want (11, -3)", x, y)
	}
}

func TestCompose2DScaleBeforeRotation(t *testing.T) {
	// Scale applies first, then rotation: the unit x axis scaled by 2 and
	// rotated 90° CCW must land on (0, 2), not (0, 1) scaled afterwards along x.
	var m [9]float32
	Compose2D(m[:], 0, 0, float32(math.Pi/2), 2, 3)

	x, y := TransformPoint2D(m[:], 1, 0)
	if !approxEq(x, 0) || !approxEq(y, 2) {
		t.Errorf("unit x mapped to (%v, %v), want (0, 2)", x, y)
	}

	x, y = TransformPoint2D(m[:], 0, 1)
	if !approxEq(x, -3) || !approxEq(y, 0) {
		t.Errorf("unit y mapped to (%v, %v), want (-3, 0)", x, y)
	}
}

func TestCompose2DAffineRow(t *testing.T) {
	var m [9]float32
	Compose2D(m[:], 5, 7, 1.3, 2, 0.5)

	// Column-major: the third row is elements 2, 5, 8.
	if m[2] != 0 || m[5] != 0 || m[8] != 1 {
		t.Errorf("third row = (%v, %v, %v), want (0, 0, 1)", m[2], m[5], m[8])
	}
}

func TestCompose2DMatchesManualComposition(t *testing.T) {
	pos := [2]float32{3, -2}
	rot := float32(0.7)
	scale := [2]float32{1.5, 4}

	var composed [9]float32
	Compose2D(composed[:], pos[0], pos[1], rot, scale[0], scale[1])

	// Build T, R, S separately and multiply: T * R * S.
	var tr, ro, sc, trRo, want [9]float32
	Identity3(tr[:])
	tr[6], tr[7] = pos[0], pos[1]
	c := float32(math.Cos(float64(rot)))
	s := float32(math.Sin(float64(rot)))
	Identity3(ro[:])
	ro[0], ro[1], ro[3], ro[4] = c, s, -s, c
	Identity3(sc[:])
	sc[0], sc[4] = scale[0], scale[1]

	Mul3(trRo[:], tr[:], ro[:])
	Mul3(want[:], trRo[:], sc[:])

	for i := range want {
		if !approxEq(composed[i], want[i]) {
			t.Fatalf("element %d = %v, want %v", i, composed[i], want[i])
		}
	}
}

func TestOrtho2DMapsCornersToClipSpace(t *testing.T) {
	var m [16]float32
	Ortho2D(m[:], 100, 300, 50, 150)

	tests := []struct {
		name         string
		wx, wy       float32
		wantX, wantY float32
	}{
		{"bottom-left", 100, 50, -1, -1},
		{"top-right", 300, 150, 1, 1},
		{"center", 200, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out [4]float32
			MulVec4(out[:], m[:], []float32{tt.wx, tt.wy, 0, 1})
			if !approxEq(out[0], tt.wantX) || !approxEq(out[1], tt.wantY) {
				t.Errorf("(%v, %v) mapped to (%v, %v), want (%v, %v)",
					tt.wx, tt.wy, out[0], out[1], tt.wantX, tt.wantY)
			}
			if out[2] != 0 {
				t.Errorf("z = %v, want 0", out[2])
			}
			if out[3] != 1 {
				t.Errorf("w = %v, want 1", out[3])
			}
		})
	}
}

func TestOrtho2DCollapsesZ(t *testing.T) {
	var m [16]float32
	Ortho2D(m[:], -10, 10, -10, 10)

	var out [4]float32
	MulVec4(out[:], m[:], []float32{3, 4, 99, 1})
	if out[2] != 0 {
		t.Errorf("z = %v, want 0 regardless of input z", out[2])
	}
}

func TestMul3Identity(t *testing.T) {
	var id, a, out [9]float32
	Identity3(id[:])
	Compose2D(a[:], 1, 2, 0.5, 3, 4)

	Mul3(out[:], id[:], a[:])
	if out != a {
		t.Errorf("I * a = %v, want %v", out, a)
	}
	Mul3(out[:], a[:], id[:])
	if out != a {
		t.Errorf("a * I = %v, want %v", out, a)
	}
}

func TestMul3AliasesOutput(t *testing.T) {
	// out may alias an input: the implementation buffers before writing.
	var a, b, want [9]float32
	Compose2D(a[:], 1, 0, 0.3, 2, 2)
	Compose2D(b[:], -5, 5, 0, 1, 1)
	Mul3(want[:], a[:], b[:])

	Mul3(a[:], a[:], b[:])
	if a != want {
		t.Errorf("aliased multiply = %v, want %v", a, want)
	}
}

func TestSliceToBytes(t *testing.T) {
	if got := SliceToBytes([]float32(nil)); got != nil {
		t.Errorf("nil slice produced %v, want nil", got)
	}

	data := []float32{1, 2, 3}
	got := SliceToBytes(data)
	if len(got) != 12 {
		t.Errorf("len = %d, want 12", len(got))
	}

	idx := []uint16{0, 1, 2, 0, 2, 3}
	if got := SliceToBytes(idx); len(got) != 12 {
		t.Errorf("uint16 len = %d, want 12", len(got))
	}
}
