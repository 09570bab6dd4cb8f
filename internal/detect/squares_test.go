package detect

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

func newDoc(t *testing.T) *drawing.Document {
	t.Helper()
	return drawing.NewDocument()
}

func addSquarePolyline(t *testing.T, doc *drawing.Document, base geom.Point, side float64, layer string) string {
	t.Helper()
	handle, err := doc.AddRectangle(base, side, side, layer)
	if err != nil {
		t.Fatalf("AddRectangle: %v", err)
	}
	return handle
}

func addSquareLines(t *testing.T, doc *drawing.Document, base geom.Point, side float64, layer string) {
	t.Helper()
	corners := [4]geom.Point{
		base,
		{X: base.X + side, Y: base.Y},
		{X: base.X + side, Y: base.Y + side},
		{X: base.X, Y: base.Y + side},
	}
	for i := range corners {
		if _, err := doc.AddLine(corners[i], corners[(i+1)%4], layer); err != nil {
			t.Fatalf("AddLine: %v", err)
		}
	}
}

func TestFindSquares_Polyline(t *testing.T) {
	doc := newDoc(t)
	handle := addSquarePolyline(t, doc, geom.Point{X: 2, Y: 3}, 10, "")

	res := FindSquares(doc, DefaultSquaresOptions())
	if res.Count != 1 {
		t.Fatalf("Count = %d, want 1", res.Count)
	}
	sq := res.Squares[0]
	if sq.Kind != KindSquare || sq.Source != SourcePolyline {
		t.Errorf("Kind=%q Source=%q", sq.Kind, sq.Source)
	}
	if len(sq.Handles) != 1 || sq.Handles[0] != handle {
		t.Errorf("Handles = %v, want [%s]", sq.Handles, handle)
	}
	wantCenter := geom.Point{X: 7, Y: 8}
	if diff := cmp.Diff(wantCenter, sq.Center, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("center mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(sq.Side-10) > 1e-9 {
		t.Errorf("Side = %v, want 10", sq.Side)
	}
}

func TestFindSquares_LineLoop(t *testing.T) {
	doc := newDoc(t)
	addSquareLines(t, doc, geom.Point{X: 0, Y: 0}, 8, "")

	res := FindSquares(doc, DefaultSquaresOptions())
	if res.Count != 1 {
		t.Fatalf("Count = %d, want 1", res.Count)
	}
	sq := res.Squares[0]
	if sq.Source != SourceLines {
		t.Errorf("Source = %q, want %q", sq.Source, SourceLines)
	}
	if len(sq.Handles) != 0 {
		t.Errorf("line-loop shape carries handles: %v", sq.Handles)
	}
	if sq.Center.Distance(geom.Point{X: 4, Y: 4}) > 1e-9 {
		t.Errorf("center = %+v, want (4,4)", sq.Center)
	}
}

func TestFindSquares_NoCrossDedup(t *testing.T) {
	// The same square drawn both as a closed polyline and as four line
	// entities is reported once per source.
	doc := newDoc(t)
	addSquarePolyline(t, doc, geom.Point{}, 10, "")
	addSquareLines(t, doc, geom.Point{}, 10, "")

	res := FindSquares(doc, DefaultSquaresOptions())
	if res.Count != 2 {
		t.Fatalf("Count = %d, want 2", res.Count)
	}
	if res.Squares[0].Source != SourcePolyline || res.Squares[1].Source != SourceLines {
		t.Errorf("sources = %q, %q", res.Squares[0].Source, res.Squares[1].Source)
	}
}

func TestFindSquares_ExcludeSegments(t *testing.T) {
	doc := newDoc(t)
	addSquareLines(t, doc, geom.Point{}, 8, "")

	res := FindSquares(doc, SquaresOptions{IncludeSegments: false})
	if res.Count != 0 {
		t.Errorf("Count = %d, want 0 with segment loops disabled", res.Count)
	}
}

func TestFindSquares_RectanglesOptIn(t *testing.T) {
	doc := newDoc(t)
	if _, err := doc.AddRectangle(geom.Point{}, 10, 4, ""); err != nil {
		t.Fatal(err)
	}

	if res := FindSquares(doc, DefaultSquaresOptions()); res.Count != 0 {
		t.Errorf("Count = %d, want 0 without AllowRectangles", res.Count)
	}

	opts := DefaultSquaresOptions()
	opts.AllowRectangles = true
	res := FindSquares(doc, opts)
	if res.Count != 1 || res.Squares[0].Kind != KindRectangle {
		t.Errorf("Count=%d Kind=%q", res.Count, res.Squares[0].Kind)
	}
}

func TestFindSquares_LayerFilterAndCap(t *testing.T) {
	doc := newDoc(t)
	addSquarePolyline(t, doc, geom.Point{}, 5, "A")
	addSquarePolyline(t, doc, geom.Point{X: 20}, 5, "A")
	addSquarePolyline(t, doc, geom.Point{X: 40}, 5, "B")

	opts := DefaultSquaresOptions()
	opts.Layer = "A"
	if res := FindSquares(doc, opts); res.Count != 2 {
		t.Errorf("layer A Count = %d, want 2", res.Count)
	}

	opts.Layer = ""
	opts.MaxCount = 2
	if res := FindSquares(doc, opts); res.Count != 2 {
		t.Errorf("capped Count = %d, want 2", res.Count)
	}
}

func TestFindSquares_RejectsNonSquares(t *testing.T) {
	doc := newDoc(t)
	// Triangle.
	if _, err := doc.AddPolyline([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}}, "", true); err != nil {
		t.Fatal(err)
	}
	// Collinear "loop" built from lines has no area.
	for _, seg := range [][2]geom.Point{
		{{X: 0, Y: 50}, {X: 10, Y: 50}}, {{X: 10, Y: 50}, {X: 20, Y: 50}}, {{X: 20, Y: 50}, {X: 30, Y: 50}},
	} {
		if _, err := doc.AddLine(seg[0], seg[1], ""); err != nil {
			t.Fatal(err)
		}
	}

	if res := FindSquares(doc, DefaultSquaresOptions()); res.Count != 0 {
		t.Errorf("Count = %d, want 0", res.Count)
	}
}

func TestFindClosedPolylines_Filters(t *testing.T) {
	doc := newDoc(t)
	addSquarePolyline(t, doc, geom.Point{}, 10, "")
	if _, err := doc.AddPolyline([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 0.8}}, "", true); err != nil {
		t.Fatal(err)
	}

	all := FindClosedPolylines(doc, PolylineOptions{})
	if len(all) != 2 {
		t.Fatalf("unfiltered = %d, want 2", len(all))
	}
	quads := FindClosedPolylines(doc, PolylineOptions{MinVertices: 4})
	if len(quads) != 1 {
		t.Errorf("MinVertices 4 = %d, want 1", len(quads))
	}
	big := FindClosedPolylines(doc, PolylineOptions{MinArea: 50})
	if len(big) != 1 || math.Abs(big[0].Area-100) > 1e-9 {
		t.Errorf("MinArea filter = %+v", big)
	}
}

func TestFindCircles(t *testing.T) {
	doc := newDoc(t)
	doc.AddCircle(geom.Point{X: 0, Y: 0}, 1, "A")
	doc.AddCircle(geom.Point{X: 5, Y: 5}, 10, "A")
	doc.AddCircle(geom.Point{X: 9, Y: 9}, 3, "B")

	if got := FindCircles(doc, CircleOptions{}); len(got) != 3 {
		t.Errorf("unfiltered = %d, want 3", len(got))
	}
	if got := FindCircles(doc, CircleOptions{Layer: "A", MinRadius: 2}); len(got) != 1 {
		t.Errorf("filtered = %d, want 1", len(got))
	}
	if got := FindCircles(doc, CircleOptions{MaxCount: 2}); len(got) != 2 {
		t.Errorf("capped = %d, want 2", len(got))
	}
}

func TestPickLargest(t *testing.T) {
	doc := newDoc(t)

	if _, ok := PickLargestClosedPolyline(doc, "", geom.Tolerance{}); ok {
		t.Error("empty document yielded a polyline")
	}
	if _, ok := PickLargestCircle(doc, ""); ok {
		t.Error("empty document yielded a circle")
	}

	addSquarePolyline(t, doc, geom.Point{}, 5, "")
	big := addSquarePolyline(t, doc, geom.Point{X: 50}, 20, "")
	doc.AddCircle(geom.Point{}, 3, "")
	doc.AddCircle(geom.Point{X: 9}, 7, "")

	poly, ok := PickLargestClosedPolyline(doc, "", geom.Tolerance{})
	if !ok || poly.Handle != big {
		t.Errorf("largest polyline = %+v ok=%v", poly, ok)
	}
	circle, ok := PickLargestCircle(doc, "")
	if !ok || circle.Radius != 7 {
		t.Errorf("largest circle = %+v ok=%v", circle, ok)
	}
}

func TestMeasureLargestBounds(t *testing.T) {
	doc := newDoc(t)
	addSquarePolyline(t, doc, geom.Point{X: 1, Y: 2}, 10, "")

	info, ok := MeasureLargestBounds(doc, "", geom.Tolerance{})
	if !ok {
		t.Fatal("no bounds measured")
	}
	want := BoundsInfo{
		Min:    geom.Point{X: 1, Y: 2},
		Max:    geom.Point{X: 11, Y: 12},
		Width:  10,
		Height: 10,
		Center: geom.Point{X: 6, Y: 7},
	}
	if diff := cmp.Diff(want, info, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}
