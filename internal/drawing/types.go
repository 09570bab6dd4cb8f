package drawing

import (
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// Entity kind tags.
const (
	KindPolyline = "polyline"
	KindLine     = "line"
	KindCircle   = "circle"
)

// Entity is the closed set of drawing primitives. The concrete types are
// Polyline, Segment, and Circle; the variant is fixed when the entity is
// created, never re-derived from a type name.
type Entity interface {
	// Kind returns the variant tag: "polyline", "line", or "circle".
	Kind() string

	// Ref returns the entity's handle and layer.
	Ref() (handle, layer string)

	// Bounds returns the entity's axis-aligned bounding box. The second
	// return value is false for entities without extent (empty polylines).
	Bounds() (geom.Rect, bool)

	// offset returns a translated copy under a new handle and layer.
	// Unexported to keep the variant set closed.
	offset(dx, dy float64, handle, layer string) Entity
}

// Polyline is a connected sequence of vertices, optionally closed. A closed
// polyline whose last vertex repeats the first keeps the duplicate in
// storage; the EntitySource port strips it on enumeration.
type Polyline struct {
	Handle   string       `json:"handle"`
	Layer    string       `json:"layer"`
	Vertices []geom.Point `json:"vertices"`
	Closed   bool         `json:"closed"`
}

// Kind implements Entity.
func (p Polyline) Kind() string { return KindPolyline }

// Ref implements Entity.
func (p Polyline) Ref() (string, string) { return p.Handle, p.Layer }

// Bounds implements Entity.
func (p Polyline) Bounds() (geom.Rect, bool) { return geom.BoundingBox(p.Vertices) }

func (p Polyline) offset(dx, dy float64, handle, layer string) Entity {
	verts := make([]geom.Point, len(p.Vertices))
	for i, v := range p.Vertices {
		verts[i] = geom.Point{X: v.X + dx, Y: v.Y + dy}
	}
	return Polyline{Handle: handle, Layer: layer, Vertices: verts, Closed: p.Closed}
}

// Segment is a single line with two endpoints.
type Segment struct {
	Handle string     `json:"handle"`
	Layer  string     `json:"layer"`
	Start  geom.Point `json:"start"`
	End    geom.Point `json:"end"`
}

// Kind implements Entity.
func (s Segment) Kind() string { return KindLine }

// Ref implements Entity.
func (s Segment) Ref() (string, string) { return s.Handle, s.Layer }

// Bounds implements Entity.
func (s Segment) Bounds() (geom.Rect, bool) {
	return geom.RectFromCorners(s.Start, s.End), true
}

func (s Segment) offset(dx, dy float64, handle, layer string) Entity {
	return Segment{
		Handle: handle,
		Layer:  layer,
		Start:  geom.Point{X: s.Start.X + dx, Y: s.Start.Y + dy},
		End:    geom.Point{X: s.End.X + dx, Y: s.End.Y + dy},
	}
}

// Circle is a full circle with center and radius.
type Circle struct {
	Handle string     `json:"handle"`
	Layer  string     `json:"layer"`
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
}

// Kind implements Entity.
func (c Circle) Kind() string { return KindCircle }

// Ref implements Entity.
func (c Circle) Ref() (string, string) { return c.Handle, c.Layer }

// Bounds implements Entity.
func (c Circle) Bounds() (geom.Rect, bool) {
	return geom.NewRect(c.Center.X-c.Radius, c.Center.Y-c.Radius, 2*c.Radius, 2*c.Radius), true
}

func (c Circle) offset(dx, dy float64, handle, layer string) Entity {
	return Circle{
		Handle: handle,
		Layer:  layer,
		Center: geom.Point{X: c.Center.X + dx, Y: c.Center.Y + dy},
		Radius: c.Radius,
	}
}

// EntitySource is the read port the detection pipeline consumes. An empty
// layer filter selects all layers.
type EntitySource interface {
	// ClosedPolylines returns the closed polylines on the given layer, with
	// any duplicated closing vertex stripped.
	ClosedPolylines(layer string) []Polyline

	// Segments returns the individual line entities on the given layer.
	Segments(layer string) []Segment

	// Circles returns the circle entities on the given layer.
	Circles(layer string) []Circle
}

// Sink is the write port the construction operations drive. Each method
// returns the handle of the created entity or an error; callers treat
// per-entity errors as skippable.
type Sink interface {
	AddLine(start, end geom.Point, layer string) (string, error)
	AddPolyline(points []geom.Point, layer string, closed bool) (string, error)
	AddCircle(center geom.Point, radius float64, layer string) (string, error)

	// EnsureLayer creates the layer if missing and sets its color. Color is a
	// named color or "#RRGGBB" hex; unknown names fall back to white.
	EnsureLayer(name, color string) error
}
