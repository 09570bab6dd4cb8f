package construct

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

func addSquare(t *testing.T, doc *drawing.Document, base geom.Point, side float64, layer string) {
	t.Helper()
	if _, err := doc.AddRectangle(base, side, side, layer); err != nil {
		t.Fatalf("AddRectangle: %v", err)
	}
}

func TestInscribeCirclesInSquares(t *testing.T) {
	doc := drawing.NewDocument()
	addSquare(t, doc, geom.Point{X: 0, Y: 0}, 10, "")
	addSquare(t, doc, geom.Point{X: 100, Y: 100}, 4, "")

	res := InscribeCirclesInSquares(doc, doc, InscribeCirclesOptions{})
	if !res.OK {
		t.Fatalf("result not OK: reason=%q", res.Reason)
	}
	if res.Inserted != 2 || res.Skipped != 0 {
		t.Fatalf("Inserted=%d Skipped=%d, want 2/0", res.Inserted, res.Skipped)
	}
	if res.Layer != DefaultInscribeLayer {
		t.Errorf("Layer = %q, want %q", res.Layer, DefaultInscribeLayer)
	}

	circles := doc.Circles(DefaultInscribeLayer)
	if len(circles) != 2 {
		t.Fatalf("got %d circles on target layer, want 2", len(circles))
	}
	wantCenters := []geom.Point{{X: 5, Y: 5}, {X: 102, Y: 102}}
	wantRadii := []float64{5, 2}
	for _, c := range circles {
		matched := false
		for i, want := range wantCenters {
			if c.Center.Distance(want) < 1e-9 && math.Abs(c.Radius-wantRadii[i]) < 1e-9 {
				matched = true
			}
		}
		if !matched {
			t.Errorf("unexpected circle center=%+v radius=%v", c.Center, c.Radius)
		}
	}
}

func TestInscribeCirclesInSquares_LineLoop(t *testing.T) {
	doc := drawing.NewDocument()
	corners := []geom.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}}
	for i := range corners {
		if _, err := doc.AddLine(corners[i], corners[(i+1)%4], ""); err != nil {
			t.Fatalf("AddLine: %v", err)
		}
	}

	res := InscribeCirclesInSquares(doc, doc, InscribeCirclesOptions{})
	if !res.OK || res.Inserted != 1 {
		t.Fatalf("OK=%v Inserted=%d, want true/1", res.OK, res.Inserted)
	}

	circles := doc.Circles(DefaultInscribeLayer)
	if len(circles) != 1 {
		t.Fatalf("got %d circles, want 1", len(circles))
	}
	want := geom.Point{X: 500, Y: 500}
	if diff := cmp.Diff(want, circles[0].Center, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("center mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(circles[0].Radius-500) > 1e-9 {
		t.Errorf("radius = %v, want 500", circles[0].Radius)
	}
}

func TestInscribeCirclesInSquares_NoSquares(t *testing.T) {
	doc := drawing.NewDocument()
	if _, err := doc.AddCircle(geom.Point{X: 1, Y: 1}, 5, ""); err != nil {
		t.Fatalf("AddCircle: %v", err)
	}

	res := InscribeCirclesInSquares(doc, doc, InscribeCirclesOptions{})
	if !res.OK || res.Inserted != 0 {
		t.Fatalf("OK=%v Inserted=%d, want true/0", res.OK, res.Inserted)
	}
}

func TestInscribeSquaresInCircles(t *testing.T) {
	doc := drawing.NewDocument()
	if _, err := doc.AddCircle(geom.Point{X: 0, Y: 0}, 100, ""); err != nil {
		t.Fatalf("AddCircle: %v", err)
	}

	res := InscribeSquaresInCircles(doc, doc, InscribeSquaresOptions{LayerName: "SQ"})
	if !res.OK || res.Inserted != 1 {
		t.Fatalf("OK=%v Inserted=%d, want true/1", res.OK, res.Inserted)
	}

	polys := doc.ClosedPolylines("SQ")
	if len(polys) != 1 {
		t.Fatalf("got %d closed polylines, want 1", len(polys))
	}
	// Inscribed square: diagonal = diameter, so side = 100*sqrt(2).
	sides := polys[0].Vertices
	if len(sides) != 4 {
		t.Fatalf("got %d vertices, want 4", len(sides))
	}
	wantSide := 100 * math.Sqrt2
	if got := sides[0].Distance(sides[1]); math.Abs(got-wantSide) > 1e-9 {
		t.Errorf("side = %v, want %v", got, wantSide)
	}
	center := geom.Centroid(sides, geom.DefaultPosTol)
	if center.Distance(geom.Point{}) > 1e-9 {
		t.Errorf("square center = %+v, want origin", center)
	}
}

func TestRoofOverLargestSquare(t *testing.T) {
	doc := drawing.NewDocument()
	addSquare(t, doc, geom.Point{X: 0, Y: 0}, 10, "WALLS")
	addSquare(t, doc, geom.Point{X: 50, Y: 0}, 4, "WALLS")

	res := RoofOverLargestSquare(doc, doc, RoofOptions{
		SourceLayer: "WALLS",
		ResultLayer: "ROOF",
		Overhang:    1,
	})
	if !res.OK {
		t.Fatalf("result not OK: reason=%q", res.Reason)
	}
	if res.Layer != "ROOF" || res.Handle == "" {
		t.Errorf("Layer=%q Handle=%q", res.Layer, res.Handle)
	}

	polys := doc.ClosedPolylines("ROOF")
	if len(polys) != 1 {
		t.Fatalf("got %d roof polylines, want 1", len(polys))
	}
	want := []geom.Point{{X: -1, Y: 10}, {X: 11, Y: 10}, {X: 5, Y: 15}}
	if diff := cmp.Diff(want, polys[0].Vertices, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("roof vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestRoofOverLargestSquare_LineLoopFallback(t *testing.T) {
	doc := drawing.NewDocument()
	corners := []geom.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 8}, {X: 0, Y: 8}}
	for i := range corners {
		if _, err := doc.AddLine(corners[i], corners[(i+1)%4], ""); err != nil {
			t.Fatalf("AddLine: %v", err)
		}
	}

	res := RoofOverLargestSquare(doc, doc, RoofOptions{ResultLayer: "ROOF"})
	if !res.OK {
		t.Fatalf("result not OK: reason=%q", res.Reason)
	}
	polys := doc.ClosedPolylines("ROOF")
	if len(polys) != 1 {
		t.Fatalf("got %d roof polylines, want 1", len(polys))
	}
	apex := polys[0].Vertices[2]
	want := geom.Point{X: 4, Y: 12}
	if diff := cmp.Diff(want, apex, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("apex mismatch (-want +got):\n%s", diff)
	}
}

func TestRoofOverLargestSquare_Empty(t *testing.T) {
	doc := drawing.NewDocument()
	res := RoofOverLargestSquare(doc, doc, RoofOptions{})
	if res.OK || res.Reason != ReasonNoSquares {
		t.Fatalf("OK=%v Reason=%q, want false/%q", res.OK, res.Reason, ReasonNoSquares)
	}
}

func TestDrawFromCenter(t *testing.T) {
	doc := drawing.NewDocument()

	res := DrawFromCenter(doc, geom.Point{X: 3, Y: 4}, "circle", 10, "MARKS")
	if !res.OK || res.Inserted != 1 {
		t.Fatalf("circle: OK=%v Inserted=%d", res.OK, res.Inserted)
	}
	circles := doc.Circles("MARKS")
	if len(circles) != 1 || math.Abs(circles[0].Radius-5) > 1e-12 {
		t.Fatalf("circles = %+v", circles)
	}

	res = DrawFromCenter(doc, geom.Point{X: 0, Y: 0}, "square", 6, "MARKS")
	if !res.OK {
		t.Fatalf("square: reason=%q", res.Reason)
	}
	polys := doc.ClosedPolylines("MARKS")
	if len(polys) != 1 {
		t.Fatalf("got %d polylines, want 1", len(polys))
	}
	if got := polys[0].Vertices[0].Distance(polys[0].Vertices[1]); math.Abs(got-6) > 1e-12 {
		t.Errorf("side = %v, want 6", got)
	}

	res = DrawFromCenter(doc, geom.Point{}, "triangle", 1, "MARKS")
	if res.OK || res.Reason != ReasonUnknownShape {
		t.Errorf("triangle: OK=%v Reason=%q", res.OK, res.Reason)
	}
}

func TestSnowman(t *testing.T) {
	doc := drawing.NewDocument()
	if _, err := doc.AddCircle(geom.Point{X: 0, Y: 0}, 100, "BODY"); err != nil {
		t.Fatalf("AddCircle: %v", err)
	}

	res := Snowman(doc, doc, SnowmanOptions{SourceLayer: "BODY", ResultLayer: "SNOW"})
	if !res.OK {
		t.Fatalf("result not OK: reason=%q", res.Reason)
	}
	if res.Base == nil || res.Base.Radius != 100 {
		t.Fatalf("base circle = %+v", res.Base)
	}
	// 3 body circles + 2 eyes + 2 hands + 2 feet, 2 arm lines + 2 leg lines.
	if res.Inserted != 13 || res.Skipped != 0 {
		t.Fatalf("Inserted=%d Skipped=%d, want 13/0", res.Inserted, res.Skipped)
	}

	circles := doc.Circles("SNOW")
	if len(circles) != 9 {
		t.Fatalf("got %d circles, want 9", len(circles))
	}
	segments := doc.Segments("SNOW")
	if len(segments) != 4 {
		t.Fatalf("got %d limb segments, want 4", len(segments))
	}

	// Middle circle sits on top of the base with a gap of 10.
	var foundMid, foundHead bool
	for _, c := range circles {
		if math.Abs(c.Radius-70) < 1e-9 {
			foundMid = true
			want := geom.Point{X: 0, Y: 180}
			if c.Center.Distance(want) > 1e-9 {
				t.Errorf("middle center = %+v, want %+v", c.Center, want)
			}
		}
		if math.Abs(c.Radius-50) < 1e-9 {
			foundHead = true
			want := geom.Point{X: 0, Y: 310}
			if c.Center.Distance(want) > 1e-9 {
				t.Errorf("head center = %+v, want %+v", c.Center, want)
			}
		}
	}
	if !foundMid || !foundHead {
		t.Errorf("missing stacked circles: mid=%v head=%v", foundMid, foundHead)
	}
}

func TestSnowman_NoLimbs(t *testing.T) {
	doc := drawing.NewDocument()
	if _, err := doc.AddCircle(geom.Point{X: 0, Y: 0}, 10, ""); err != nil {
		t.Fatalf("AddCircle: %v", err)
	}

	res := Snowman(doc, doc, SnowmanOptions{DrawArms: false, DrawLegs: false})
	if !res.OK || res.Inserted != 5 {
		t.Fatalf("OK=%v Inserted=%d, want true/5", res.OK, res.Inserted)
	}
	if res.Layer != DefaultSnowmanLayer {
		t.Errorf("Layer = %q, want %q", res.Layer, DefaultSnowmanLayer)
	}
}

func TestSnowman_NoCircles(t *testing.T) {
	doc := drawing.NewDocument()
	res := Snowman(doc, doc, SnowmanOptions{})
	if res.OK || res.Reason != ReasonNoCircles {
		t.Fatalf("OK=%v Reason=%q, want false/%q", res.OK, res.Reason, ReasonNoCircles)
	}
}

// failingSink rejects every primitive after the layer is ensured.
type failingSink struct{}

func (failingSink) AddLine(_, _ geom.Point, _ string) (string, error) {
	return "", errors.New("sink closed")
}

func (failingSink) AddPolyline(_ []geom.Point, _ string, _ bool) (string, error) {
	return "", errors.New("sink closed")
}

func (failingSink) AddCircle(_ geom.Point, _ float64, _ string) (string, error) {
	return "", errors.New("sink closed")
}

func (failingSink) EnsureLayer(_, _ string) error { return nil }

func TestInscribeCirclesInSquares_EmitFailures(t *testing.T) {
	doc := drawing.NewDocument()
	addSquare(t, doc, geom.Point{X: 0, Y: 0}, 10, "")

	res := InscribeCirclesInSquares(doc, failingSink{}, InscribeCirclesOptions{})
	if !res.OK {
		t.Fatalf("result not OK: reason=%q", res.Reason)
	}
	if res.Inserted != 0 || res.Skipped != 1 {
		t.Errorf("Inserted=%d Skipped=%d, want 0/1", res.Inserted, res.Skipped)
	}
}

func TestSnowman_EmitFailures(t *testing.T) {
	doc := drawing.NewDocument()
	if _, err := doc.AddCircle(geom.Point{X: 0, Y: 0}, 10, ""); err != nil {
		t.Fatalf("AddCircle: %v", err)
	}

	res := Snowman(doc, failingSink{}, SnowmanOptions{DrawArms: false, DrawLegs: false})
	if !res.OK || res.Inserted != 0 || res.Skipped != 5 {
		t.Fatalf("OK=%v Inserted=%d Skipped=%d, want true/0/5", res.OK, res.Inserted, res.Skipped)
	}
}
