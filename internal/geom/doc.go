// Package geom provides the basic geometric types and tolerance-aware
// primitives used by the detection and construction packages.
//
// All geometry is planar (XY) with floating-point coordinates. Points are
// never compared for exact equality; every comparison goes through the
// tolerance predicates in this package.
//
// # Coordinate System
//
// Drawing coordinates use the CAD convention: X increases rightward and Y
// increases upward. This is the opposite Y direction from image coordinates;
// the render package performs the flip when rasterizing.
//
// # Tolerances
//
// A Tolerance value bundles the four numeric tolerances that every detection
// and classification call takes explicitly:
//
//   - Pos: absolute positional tolerance, in drawing units. Two points closer
//     than this are the same point.
//   - AngleDeg: maximum deviation from 90° for an angle to count as right.
//   - RelLen: relative tolerance for side-length equality.
//   - MinSide: minimum side length below which a candidate side is noise.
//
// There is no package-level mutable default; DefaultTolerance returns a fresh
// value and callers thread it through their calls.
//
// # Robustness
//
// The primitives are total: degenerate inputs (zero-length rays, collinear
// polygons, empty point sets) produce a defined fallback result instead of a
// division error. Centroid falls back to the arithmetic vertex mean when the
// polygon's signed area is below the positional tolerance, and BoundingBox
// reports absence explicitly for empty input.
package geom
