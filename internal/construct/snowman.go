package construct

import (
	"math"

	"github.com/draftforge/cad-tools-mcp/internal/detect"
	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// DefaultSnowmanLayer is the target layer when neither a result nor a source
// layer is given.
const DefaultSnowmanLayer = "SNOWMAN"

// SnowmanOptions controls Snowman. All proportions are relative to the base
// circle's radius R.
type SnowmanOptions struct {
	// SourceLayer restricts the base-circle pick; empty means all layers.
	SourceLayer string

	// ResultLayer is the target layer. Empty falls back to SourceLayer,
	// then to DefaultSnowmanLayer.
	ResultLayer string

	// Color is the target layer's color.
	Color string

	// MiddleScale and HeadScale size the middle and head circles.
	MiddleScale float64
	HeadScale   float64

	// GapRatio is the vertical gap between stacked circles, as a fraction
	// of R.
	GapRatio float64

	// EyeScale sizes the eye circles relative to the head radius.
	EyeScale float64

	// DrawArms and DrawLegs toggle the limb line segments with their hand
	// and foot circles.
	DrawArms bool
	DrawLegs bool

	// HandScale and FootScale size the hand and foot circles.
	HandScale float64
	FootScale float64

	Tol geom.Tolerance
}

// DefaultSnowmanOptions returns the standard snowman proportions.
func DefaultSnowmanOptions() SnowmanOptions {
	return SnowmanOptions{
		Color:       "white",
		MiddleScale: 0.7,
		HeadScale:   0.5,
		GapRatio:    0.1,
		EyeScale:    0.12,
		DrawArms:    true,
		DrawLegs:    true,
		HandScale:   0.12,
		FootScale:   0.12,
		Tol:         geom.DefaultTolerance(),
	}
}

// SnowmanResult is a Result plus the selected base circle.
type SnowmanResult struct {
	Result
	Base *detect.CircleInfo `json:"base_circle,omitempty"`
}

// Snowman composes a stacked-circle figure from the largest existing circle:
// three vertically stacked circles (base R, middle R*MiddleScale, head
// R*HeadScale separated by GapRatio*R), two eyes on the head, and optionally
// two arm lines with hand circles and two leg lines with foot circles. All
// coordinates derive from R and the configured proportions; no detection
// happens beyond picking the base circle.
//
// Per-primitive emission failures are counted and skipped.
func Snowman(src drawing.EntitySource, sink drawing.Sink, opts SnowmanOptions) SnowmanResult {
	def := DefaultSnowmanOptions()
	if opts.Color == "" {
		opts.Color = def.Color
	}
	if opts.MiddleScale <= 0 {
		opts.MiddleScale = def.MiddleScale
	}
	if opts.HeadScale <= 0 {
		opts.HeadScale = def.HeadScale
	}
	if opts.GapRatio <= 0 {
		opts.GapRatio = def.GapRatio
	}
	if opts.EyeScale <= 0 {
		opts.EyeScale = def.EyeScale
	}
	if opts.HandScale <= 0 {
		opts.HandScale = def.HandScale
	}
	if opts.FootScale <= 0 {
		opts.FootScale = def.FootScale
	}
	tol := opts.Tol.Normalize()

	layer := opts.ResultLayer
	if layer == "" {
		layer = opts.SourceLayer
	}
	if layer == "" {
		layer = DefaultSnowmanLayer
	}
	if err := sink.EnsureLayer(layer, opts.Color); err != nil {
		return SnowmanResult{Result: Result{Reason: ReasonEnsureLayerFailed}}
	}

	base, ok := detect.PickLargestCircle(src, opts.SourceLayer)
	if !ok {
		return SnowmanResult{Result: Result{Reason: ReasonNoCircles}}
	}

	cx, cy := base.Center.X, base.Center.Y
	r := base.Radius
	gap := opts.GapRatio * r
	rMid := opts.MiddleScale * r
	rHead := opts.HeadScale * r

	cBase := geom.Point{X: cx, Y: cy}
	cMid := geom.Point{X: cx, Y: cy + r + gap + rMid}
	cHead := geom.Point{X: cx, Y: cMid.Y + rMid + gap + rHead}

	res := SnowmanResult{
		Result: Result{OK: true, Layer: layer},
		Base:   &base,
	}
	circle := func(center geom.Point, radius float64) {
		if _, err := sink.AddCircle(center, radius, layer); err != nil {
			res.Skipped++
			return
		}
		res.Inserted++
	}
	line := func(from, to geom.Point) {
		if _, err := sink.AddLine(from, to, layer); err != nil {
			res.Skipped++
			return
		}
		res.Inserted++
	}

	circle(cBase, r)
	circle(cMid, rMid)
	circle(cHead, rHead)

	eyeR := math.Max(rHead*opts.EyeScale, tol.MinSide)
	eyeDx := rHead * 0.3
	eyeDy := rHead * 0.15
	circle(geom.Point{X: cHead.X - eyeDx, Y: cHead.Y + eyeDy}, eyeR)
	circle(geom.Point{X: cHead.X + eyeDx, Y: cHead.Y + eyeDy}, eyeR)

	if opts.DrawArms {
		armLen := rMid * 1.2
		up := rMid * 0.3
		handR := math.Max(rHead*opts.HandScale, tol.MinSide)

		left1 := geom.Point{X: cMid.X - rMid*0.9, Y: cMid.Y + up*0.2}
		left2 := geom.Point{X: left1.X - armLen, Y: left1.Y + up}
		line(left1, left2)
		circle(left2, handR)

		right1 := geom.Point{X: cMid.X + rMid*0.9, Y: cMid.Y + up*0.2}
		right2 := geom.Point{X: right1.X + armLen, Y: right1.Y + up}
		line(right1, right2)
		circle(right2, handR)
	}

	if opts.DrawLegs {
		legLen := r * 0.7
		baseY := cBase.Y - r
		footR := math.Max(r*opts.FootScale, tol.MinSide)

		left1 := geom.Point{X: cBase.X - r*0.35, Y: baseY + r*0.2}
		left2 := geom.Point{X: left1.X - r*0.5, Y: left1.Y - legLen}
		line(left1, left2)
		circle(left2, footR)

		right1 := geom.Point{X: cBase.X + r*0.35, Y: baseY + r*0.2}
		right2 := geom.Point{X: right1.X + r*0.5, Y: right1.Y - legLen}
		line(right1, right2)
		circle(right2, footR)
	}

	return res
}
