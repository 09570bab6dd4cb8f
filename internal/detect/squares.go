package detect

import (
	"math"
	"sort"

	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// Shape provenance tags.
const (
	SourcePolyline = "polyline"
	SourceLines    = "lines"
)

// DefaultMaxSquares caps a square search when the caller does not supply a
// limit.
const DefaultMaxSquares = 2000

// DefaultMaxCircles caps a circle search when the caller does not supply a
// limit.
const DefaultMaxCircles = 5000

// Shape is a classified quadrilateral contour.
type Shape struct {
	// Vertices are the 4 contour points in walking order.
	Vertices []geom.Point `json:"vertices"`

	// Kind is the classification: "square" or "rectangle".
	Kind string `json:"kind"`

	// Source is the provenance: "polyline" for a closed polyline entity,
	// "lines" for a loop assembled from individual line entities.
	Source string `json:"source"`

	// Handles identifies the source entities. Always one handle for polyline
	// provenance; empty for line-loop provenance, since the contributing
	// segments are not tracked per loop.
	Handles []string `json:"handles"`

	// Center is the contour centroid.
	Center geom.Point `json:"center"`

	// Side is the shorter of the first two adjacent side lengths.
	Side float64 `json:"side"`

	// Bounds is the axis-aligned bounding box.
	Bounds geom.Rect `json:"bbox"`
}

// SquaresOptions controls a FindSquares run.
type SquaresOptions struct {
	// Layer restricts the search to one layer; empty means all layers.
	Layer string

	// IncludeSegments enables loop assembly from individual line entities in
	// addition to closed polylines.
	IncludeSegments bool

	// AllowRectangles also accepts contours that pass only the rectangle
	// predicate.
	AllowRectangles bool

	// MaxCount caps the number of shapes returned; <= 0 applies
	// DefaultMaxSquares.
	MaxCount int

	// Tol holds the numeric tolerances; zero fields take defaults.
	Tol geom.Tolerance
}

// DefaultSquaresOptions returns the standard search options:
// all layers, segment loops included, squares only.
func DefaultSquaresOptions() SquaresOptions {
	return SquaresOptions{
		IncludeSegments: true,
		MaxCount:        DefaultMaxSquares,
		Tol:             geom.DefaultTolerance(),
	}
}

// SquaresResult is the outcome of a FindSquares run.
type SquaresResult struct {
	Squares []Shape `json:"squares"`
	Count   int     `json:"count"`
}

// FindSquares detects square (and optionally rectangle) contours from both
// candidate sources. Closed polylines are evaluated before segment-assembled
// loops, and the search stops as soon as MaxCount shapes are collected.
//
// The two sources are not cross-deduplicated: a square drawn as a closed
// polyline whose edges also exist as line entities is reported twice.
func FindSquares(src drawing.EntitySource, opts SquaresOptions) *SquaresResult {
	tol := opts.Tol.Normalize()
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = DefaultMaxSquares
	}

	result := &SquaresResult{Squares: []Shape{}}

	polys := FindClosedPolylines(src, PolylineOptions{
		Layer:       opts.Layer,
		MinVertices: 4,
		MinArea:     tol.MinSide * tol.MinSide,
	})
	for _, poly := range polys {
		if len(result.Squares) >= maxCount {
			break
		}
		if len(poly.Vertices) != 4 {
			continue
		}
		loop := Loop{poly.Vertices[0], poly.Vertices[1], poly.Vertices[2], poly.Vertices[3]}
		kind := classifyLoop(loop, tol, opts.AllowRectangles)
		if kind == "" {
			continue
		}
		result.Squares = append(result.Squares, newShape(loop, kind, SourcePolyline, []string{poly.Handle}, tol))
	}

	if opts.IncludeSegments && len(result.Squares) < maxCount {
		loops := AssembleLoops(src.Segments(opts.Layer), tol.Pos)
		for _, loop := range loops {
			if len(result.Squares) >= maxCount {
				break
			}
			kind := classifyLoop(loop, tol, opts.AllowRectangles)
			if kind == "" {
				continue
			}
			result.Squares = append(result.Squares, newShape(loop, kind, SourceLines, nil, tol))
		}
	}

	result.Count = len(result.Squares)
	return result
}

func newShape(loop Loop, kind, source string, handles []string, tol geom.Tolerance) Shape {
	pts := loop.Points()
	bounds, _ := geom.BoundingBox(pts)
	if handles == nil {
		handles = []string{}
	}
	return Shape{
		Vertices: pts,
		Kind:     kind,
		Source:   source,
		Handles:  handles,
		Center:   geom.Centroid(pts, tol.Pos),
		Side:     math.Min(loop[0].Distance(loop[1]), loop[1].Distance(loop[2])),
		Bounds:   bounds,
	}
}

// ClosedPolylineInfo describes one closed polyline found by
// FindClosedPolylines.
type ClosedPolylineInfo struct {
	Handle   string       `json:"handle"`
	Layer    string       `json:"layer"`
	Vertices []geom.Point `json:"vertices"`
	Area     float64      `json:"area"`
	Bounds   geom.Rect    `json:"bbox"`
}

// PolylineOptions controls a FindClosedPolylines run.
type PolylineOptions struct {
	Layer       string
	MinVertices int
	MinArea     float64
}

// FindClosedPolylines returns the closed polylines passing the vertex-count
// and area filters, in drawing order. MinVertices <= 0 defaults to 3.
func FindClosedPolylines(src drawing.EntitySource, opts PolylineOptions) []ClosedPolylineInfo {
	minVertices := opts.MinVertices
	if minVertices <= 0 {
		minVertices = 3
	}
	var out []ClosedPolylineInfo
	for _, pl := range src.ClosedPolylines(opts.Layer) {
		if len(pl.Vertices) < minVertices {
			continue
		}
		area := geom.Area(pl.Vertices)
		if area < opts.MinArea {
			continue
		}
		bounds, ok := geom.BoundingBox(pl.Vertices)
		if !ok {
			continue
		}
		out = append(out, ClosedPolylineInfo{
			Handle:   pl.Handle,
			Layer:    pl.Layer,
			Vertices: pl.Vertices,
			Area:     area,
			Bounds:   bounds,
		})
	}
	return out
}

// CircleInfo describes one circle found by FindCircles.
type CircleInfo struct {
	Handle string     `json:"handle"`
	Layer  string     `json:"layer"`
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
	Bounds geom.Rect  `json:"bbox"`
}

// CircleOptions controls a FindCircles run.
type CircleOptions struct {
	Layer     string
	MinRadius float64
	MaxCount  int
}

// FindCircles returns the circles passing the radius filter, in drawing
// order, capped at MaxCount (<= 0 applies DefaultMaxCircles).
func FindCircles(src drawing.EntitySource, opts CircleOptions) []CircleInfo {
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = DefaultMaxCircles
	}
	var out []CircleInfo
	for _, c := range src.Circles(opts.Layer) {
		if c.Radius < opts.MinRadius {
			continue
		}
		bounds, _ := c.Bounds()
		out = append(out, CircleInfo{
			Handle: c.Handle,
			Layer:  c.Layer,
			Center: c.Center,
			Radius: c.Radius,
			Bounds: bounds,
		})
		if len(out) >= maxCount {
			break
		}
	}
	return out
}

// PickLargestClosedPolyline selects the closed polyline with the largest
// area, optionally restricted to one layer. The second return value is false
// when none qualifies.
func PickLargestClosedPolyline(src drawing.EntitySource, layer string, tol geom.Tolerance) (ClosedPolylineInfo, bool) {
	tol = tol.Normalize()
	polys := FindClosedPolylines(src, PolylineOptions{
		Layer:       layer,
		MinVertices: 3,
		MinArea:     tol.MinSide * tol.MinSide,
	})
	if len(polys) == 0 {
		return ClosedPolylineInfo{}, false
	}
	sort.SliceStable(polys, func(i, j int) bool { return polys[i].Area > polys[j].Area })
	return polys[0], true
}

// PickLargestCircle selects the circle with the largest radius, optionally
// restricted to one layer. The second return value is false when there are
// no circles.
func PickLargestCircle(src drawing.EntitySource, layer string) (CircleInfo, bool) {
	circles := FindCircles(src, CircleOptions{Layer: layer})
	if len(circles) == 0 {
		return CircleInfo{}, false
	}
	best := circles[0]
	for _, c := range circles[1:] {
		if c.Radius > best.Radius {
			best = c
		}
	}
	return best, true
}

// BoundsInfo is a measured bounding box with derived dimensions.
type BoundsInfo struct {
	Min    geom.Point `json:"min"`
	Max    geom.Point `json:"max"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Center geom.Point `json:"center"`
}

// MeasureLargestBounds measures the bounding box of the largest closed
// polyline. The second return value is false when no closed polyline exists.
func MeasureLargestBounds(src drawing.EntitySource, layer string, tol geom.Tolerance) (BoundsInfo, bool) {
	pick, ok := PickLargestClosedPolyline(src, layer, tol)
	if !ok {
		return BoundsInfo{}, false
	}
	return BoundsInfo{
		Min:    pick.Bounds.Min(),
		Max:    pick.Bounds.Max(),
		Width:  pick.Bounds.Width,
		Height: pick.Bounds.Height,
		Center: pick.Bounds.Center(),
	}, true
}
