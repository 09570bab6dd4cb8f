package construct

import (
	"math"

	"github.com/draftforge/cad-tools-mcp/internal/detect"
	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// Default target layer and color for inscribe operations.
const (
	DefaultInscribeLayer = "CIRCLES_YELLOW"
	DefaultInscribeColor = "yellow"
)

// Result reports the outcome of a construction operation. Failure is data:
// OK=false plus a reason code, never a fault.
type Result struct {
	OK       bool   `json:"ok"`
	Reason   string `json:"reason,omitempty"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped,omitempty"`
	Layer    string `json:"layer,omitempty"`
	Handle   string `json:"handle,omitempty"`
}

// Failure reason codes.
const (
	ReasonEnsureLayerFailed = "ensure_layer_failed"
	ReasonNoSquares         = "no_squares"
	ReasonNoCircles         = "no_circles"
	ReasonNoClosedPolylines = "no_closed_polylines"
	ReasonEmitFailed        = "emit_failed"
	ReasonEmptyModel        = "empty_model"
	ReasonUnknownShape      = "unknown_shape"
)

// InscribeCirclesOptions controls InscribeCirclesInSquares.
type InscribeCirclesOptions struct {
	// LayerName is the target layer for the new circles.
	LayerName string

	// Color is the target layer's color.
	Color string

	// LayerFilter restricts square detection to one source layer.
	LayerFilter string

	// AllowRectangles also inscribes into detected rectangles.
	AllowRectangles bool

	// MaxCount caps the detection result.
	MaxCount int

	Tol geom.Tolerance
}

// InscribeCirclesInSquares detects squares from both sources (closed
// polylines and line loops) and inscribes a circle in each: center at the
// shape centroid, radius half the shorter adjacent side. Emission failures
// are counted and skipped.
func InscribeCirclesInSquares(src drawing.EntitySource, sink drawing.Sink, opts InscribeCirclesOptions) Result {
	if opts.LayerName == "" {
		opts.LayerName = DefaultInscribeLayer
	}
	if opts.Color == "" {
		opts.Color = DefaultInscribeColor
	}
	if err := sink.EnsureLayer(opts.LayerName, opts.Color); err != nil {
		return Result{Reason: ReasonEnsureLayerFailed}
	}

	found := detect.FindSquares(src, detect.SquaresOptions{
		Layer:           opts.LayerFilter,
		IncludeSegments: true,
		AllowRectangles: opts.AllowRectangles,
		MaxCount:        opts.MaxCount,
		Tol:             opts.Tol,
	})

	res := Result{OK: true, Layer: opts.LayerName}
	for _, sq := range found.Squares {
		radius := sq.Side / 2
		if !(radius > 0) {
			res.Skipped++
			continue
		}
		if _, err := sink.AddCircle(sq.Center, radius, opts.LayerName); err != nil {
			res.Skipped++
			continue
		}
		res.Inserted++
	}
	return res
}

// InscribeSquaresOptions controls InscribeSquaresInCircles.
type InscribeSquaresOptions struct {
	LayerName   string
	Color       string
	LayerFilter string

	// MaxCount caps the number of squares emitted; <= 0 applies
	// detect.DefaultMaxCircles.
	MaxCount int
}

// InscribeSquaresInCircles inscribes an axis-aligned square in every circle
// (optionally filtered by source layer). The square's diagonal equals the
// circle's diameter: half-side r/√2, base corner at (cx-half, cy-half).
func InscribeSquaresInCircles(src drawing.EntitySource, sink drawing.Sink, opts InscribeSquaresOptions) Result {
	if opts.LayerName == "" {
		opts.LayerName = DefaultInscribeLayer
	}
	if opts.Color == "" {
		opts.Color = DefaultInscribeColor
	}
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = detect.DefaultMaxCircles
	}
	if err := sink.EnsureLayer(opts.LayerName, opts.Color); err != nil {
		return Result{Reason: ReasonEnsureLayerFailed}
	}

	res := Result{OK: true, Layer: opts.LayerName}
	for _, c := range src.Circles(opts.LayerFilter) {
		if res.Inserted >= maxCount {
			break
		}
		half := c.Radius / math.Sqrt2
		base := geom.Point{X: c.Center.X - half, Y: c.Center.Y - half}
		side := 2 * half
		pts := []geom.Point{
			base,
			{X: base.X + side, Y: base.Y},
			{X: base.X + side, Y: base.Y + side},
			{X: base.X, Y: base.Y + side},
		}
		if _, err := sink.AddPolyline(pts, opts.LayerName, true); err != nil {
			res.Skipped++
			continue
		}
		res.Inserted++
	}
	return res
}
