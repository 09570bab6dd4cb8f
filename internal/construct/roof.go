package construct

import (
	"github.com/draftforge/cad-tools-mcp/internal/detect"
	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// DefaultRoofHeightRatio is the roof height as a fraction of the base height.
const DefaultRoofHeightRatio = 0.5

// RoofOptions controls RoofOverLargestSquare.
type RoofOptions struct {
	// SourceLayer restricts base-square detection; empty means all layers.
	SourceLayer string

	// ResultLayer is the target layer for the roof polyline. Empty falls
	// back to SourceLayer, then to the document's current layer.
	ResultLayer string

	// HeightRatio is the apex height as a fraction of the base height;
	// <= 0 applies DefaultRoofHeightRatio.
	HeightRatio float64

	// Overhang extends the eaves horizontally beyond the base on each side.
	Overhang float64

	Tol geom.Tolerance
}

// RoofOverLargestSquare builds a triangular roof silhouette over the largest
// detected square. Selection prefers the largest closed polyline; when none
// exists, it falls back to the full detection pipeline (line loops included,
// rectangles allowed) and picks the candidate with the largest bounding-box
// area.
//
// The roof is emitted as a closed polyline left-eave → right-eave → apex.
func RoofOverLargestSquare(src drawing.EntitySource, sink drawing.Sink, opts RoofOptions) Result {
	heightRatio := opts.HeightRatio
	if heightRatio <= 0 {
		heightRatio = DefaultRoofHeightRatio
	}

	var bounds geom.Rect
	havBounds := false
	if pick, ok := detect.PickLargestClosedPolyline(src, opts.SourceLayer, opts.Tol); ok {
		bounds = pick.Bounds
		havBounds = true
	}
	if !havBounds {
		found := detect.FindSquares(src, detect.SquaresOptions{
			Layer:           opts.SourceLayer,
			IncludeSegments: true,
			AllowRectangles: true,
			Tol:             opts.Tol,
		})
		for _, sq := range found.Squares {
			if !havBounds || sq.Bounds.Area() > bounds.Area() {
				bounds = sq.Bounds
				havBounds = true
			}
		}
	}
	if !havBounds {
		return Result{Reason: ReasonNoSquares}
	}

	top := bounds.Max().Y
	apex := geom.Point{
		X: bounds.Center().X,
		Y: top + heightRatio*bounds.Height,
	}
	leftEave := geom.Point{X: bounds.Min().X - opts.Overhang, Y: top}
	rightEave := geom.Point{X: bounds.Max().X + opts.Overhang, Y: top}

	layer := opts.ResultLayer
	if layer == "" {
		layer = opts.SourceLayer
	}
	handle, err := sink.AddPolyline([]geom.Point{leftEave, rightEave, apex}, layer, true)
	if err != nil {
		return Result{Reason: ReasonEmitFailed}
	}
	return Result{OK: true, Inserted: 1, Layer: layer, Handle: handle}
}

// DrawFromCenter draws a shape ("circle" or "square") of the given size
// centered on the supplied point, typically the model-extents center.
func DrawFromCenter(sink drawing.Sink, center geom.Point, shape string, size float64, layer string) Result {
	switch shape {
	case "circle":
		handle, err := sink.AddCircle(center, size/2, layer)
		if err != nil {
			return Result{Reason: ReasonEmitFailed}
		}
		return Result{OK: true, Inserted: 1, Layer: layer, Handle: handle}
	case "square":
		half := size / 2
		pts := []geom.Point{
			{X: center.X - half, Y: center.Y - half},
			{X: center.X + half, Y: center.Y - half},
			{X: center.X + half, Y: center.Y + half},
			{X: center.X - half, Y: center.Y + half},
		}
		handle, err := sink.AddPolyline(pts, layer, true)
		if err != nil {
			return Result{Reason: ReasonEmitFailed}
		}
		return Result{OK: true, Inserted: 1, Layer: layer, Handle: handle}
	default:
		return Result{Reason: ReasonUnknownShape}
	}
}
