package geom

import "math"

// SignedArea returns the shoelace signed area of the polygon described by
// points in contour order. The sign encodes winding: positive for
// counter-clockwise, negative for clockwise. Fewer than 3 points yield 0.
func SignedArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// Area returns the absolute polygon area.
func Area(points []Point) float64 {
	return math.Abs(SignedArea(points))
}

// Centroid returns the area-weighted centroid of the polygon described by
// points in contour order. The result is independent of winding direction.
//
// For fewer than 3 points, or when the signed area is within posTol of zero
// (degenerate or collinear contour), the arithmetic mean of the vertices is
// returned instead of dividing by a near-zero area.
func Centroid(points []Point, posTol float64) Point {
	if len(points) == 0 {
		return Point{}
	}
	if len(points) < 3 {
		return vertexMean(points)
	}
	var signedSum, cxNum, cyNum float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := points[i].X*points[j].Y - points[j].X*points[i].Y
		signedSum += cross
		cxNum += (points[i].X + points[j].X) * cross
		cyNum += (points[i].Y + points[j].Y) * cross
	}
	area := signedSum / 2
	if math.Abs(area) <= posTol {
		return vertexMean(points)
	}
	return Point{X: cxNum / (6 * area), Y: cyNum / (6 * area)}
}

func vertexMean(points []Point) Point {
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return Point{X: sx / n, Y: sy / n}
}

// BoundingBox returns the axis-aligned bounding box of the points. The second
// return value is false when the input is empty.
func BoundingBox(points []Point) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
