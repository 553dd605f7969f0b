package blitz2d

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// This represents the transformation:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// IsTranslation reports whether the matrix is a pure translation,
// allowing a small tolerance on the linear components.
//
// The recorder bakes translations directly into recorded coordinates.
// Rotation, scale and shear components are not applied to rectangular
// clip layers or to recorded fills and strokes; see scene.Recorder.
func (m Matrix) IsTranslation() bool {
	const eps = 1e-9
	return math.Abs(m.A-1) < eps && math.Abs(m.B) < eps &&
		math.Abs(m.D) < eps && math.Abs(m.E-1) < eps
}

// Translation returns the translation components of the matrix.
func (m Matrix) Translation() (dx, dy float64) {
	return m.C, m.F
}

// IsIdentity reports whether the matrix is the identity transform.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-9
	return m.IsTranslation() && math.Abs(m.C) < eps && math.Abs(m.F) < eps
}
