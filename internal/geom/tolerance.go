package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Default tolerance values, matching common drawing-unit precision.
const (
	DefaultPosTol    = 1e-6
	DefaultAngleTol  = 1.0
	DefaultRelLenTol = 0.02
	DefaultMinSide   = 1e-6
)

// Tolerance bundles the numeric tolerances for detection and classification.
// It is passed explicitly into every call; there is no ambient default.
type Tolerance struct {
	// Pos is the absolute positional tolerance in drawing units.
	Pos float64 `json:"pos_tol"`

	// AngleDeg is the maximum deviation from 90° in degrees.
	AngleDeg float64 `json:"ang_tol_deg"`

	// RelLen is the relative tolerance for side-length equality.
	RelLen float64 `json:"rel_len_tol"`

	// MinSide is the minimum side length; shorter sides are rejected as noise.
	MinSide float64 `json:"min_side"`
}

// DefaultTolerance returns the default tolerance set.
func DefaultTolerance() Tolerance {
	return Tolerance{
		Pos:      DefaultPosTol,
		AngleDeg: DefaultAngleTol,
		RelLen:   DefaultRelLenTol,
		MinSide:  DefaultMinSide,
	}
}

// Normalize replaces non-positive fields with their defaults and returns the
// result. Zero values typically come from partially-filled tool arguments.
func (t Tolerance) Normalize() Tolerance {
	d := DefaultTolerance()
	if t.Pos <= 0 {
		t.Pos = d.Pos
	}
	if t.AngleDeg <= 0 {
		t.AngleDeg = d.AngleDeg
	}
	if t.RelLen <= 0 {
		t.RelLen = d.RelLen
	}
	if t.MinSide <= 0 {
		t.MinSide = d.MinSide
	}
	return t
}

// Near reports whether a and b are equal within the given tolerances: first
// within absTol absolutely, otherwise within relTol relative to the larger
// magnitude. The absolute tolerance also guards the denominator, so Near is
// total even for values near zero.
func Near(a, b, relTol, absTol float64) bool {
	if scalar.EqualWithinAbs(a, b, absTol) {
		return true
	}
	m := math.Max(math.Max(math.Abs(a), math.Abs(b)), absTol)
	return math.Abs(a-b)/m <= relTol
}

// VertexAngle returns the angle at vertex between the rays to prev and next,
// in degrees in [0, 180]. Zero-length rays are treated as unit length, and the
// dot product is clamped before acos, so the result is always finite.
func VertexAngle(prev, vertex, next Point) float64 {
	v1 := prev.Sub(vertex)
	v2 := next.Sub(vertex)
	n1 := math.Hypot(v1.X, v1.Y)
	n2 := math.Hypot(v2.X, v2.Y)
	if n1 == 0 {
		n1 = 1
	}
	if n2 == 0 {
		n2 = 1
	}
	dot := (v1.X*v2.X + v1.Y*v2.Y) / (n1 * n2)
	dot = math.Max(-1, math.Min(1, dot))
	return math.Acos(dot) * 180 / math.Pi
}
