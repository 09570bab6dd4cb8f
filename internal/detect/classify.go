package detect

import (
	"gonum.org/v1/gonum/stat"

	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// Shape classification tags.
const (
	KindSquare    = "square"
	KindRectangle = "rectangle"
)

// sideLengths returns the 4 side lengths in loop order.
func sideLengths(loop Loop) [4]float64 {
	return [4]float64{
		loop[0].Distance(loop[1]),
		loop[1].Distance(loop[2]),
		loop[2].Distance(loop[3]),
		loop[3].Distance(loop[0]),
	}
}

// interiorAngles returns the angle at each vertex against its two
// loop-neighbors, in degrees.
func interiorAngles(loop Loop) [4]float64 {
	var angles [4]float64
	for i := 0; i < 4; i++ {
		prev := loop[(i+3)%4]
		next := loop[(i+1)%4]
		angles[i] = geom.VertexAngle(prev, loop[i], next)
	}
	return angles
}

func sidesAboveMinimum(sides [4]float64, minSide float64) bool {
	for _, s := range sides {
		if s < minSide {
			return false
		}
	}
	return true
}

func anglesNearRight(angles [4]float64, angTolDeg float64) bool {
	for _, a := range angles {
		if a-90 > angTolDeg || 90-a > angTolDeg {
			return false
		}
	}
	return true
}

// IsSquare reports whether the loop, taken in contour order, forms a square
// under the given tolerances: all sides at least MinSide, all sides equal to
// their mean within RelLen (or Pos absolutely), and all interior angles
// within AngleDeg of 90°.
func IsSquare(loop Loop, tol geom.Tolerance) bool {
	sides := sideLengths(loop)
	if !sidesAboveMinimum(sides, tol.MinSide) {
		return false
	}
	mean := stat.Mean(sides[:], nil)
	for _, s := range sides {
		if !geom.Near(s, mean, tol.RelLen, tol.Pos) {
			return false
		}
	}
	return anglesNearRight(interiorAngles(loop), tol.AngleDeg)
}

// IsRectangle reports whether the loop forms a rectangle: the same minimum
// side and right-angle requirements as IsSquare, but only opposite sides
// (0↔2 and 1↔3) must be mutually near.
func IsRectangle(loop Loop, tol geom.Tolerance) bool {
	sides := sideLengths(loop)
	if !sidesAboveMinimum(sides, tol.MinSide) {
		return false
	}
	if !anglesNearRight(interiorAngles(loop), tol.AngleDeg) {
		return false
	}
	return geom.Near(sides[0], sides[2], tol.RelLen, tol.Pos) &&
		geom.Near(sides[1], sides[3], tol.RelLen, tol.Pos)
}

// classifyLoop applies the square predicate and, when allowed, the rectangle
// predicate. The empty string means the loop matched neither.
func classifyLoop(loop Loop, tol geom.Tolerance, allowRectangles bool) string {
	if IsSquare(loop, tol) {
		return KindSquare
	}
	if allowRectangles && IsRectangle(loop, tol) {
		return KindRectangle
	}
	return ""
}
